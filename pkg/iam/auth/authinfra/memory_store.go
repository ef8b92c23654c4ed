package authinfra

import (
	"context"
	"sync"
	"time"

	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// MemoryTokenStore is the in-process auth.TokenStore: a mutex-guarded map
// keyed by token value with a secondary per-user index. Suitable for tests
// and single-instance deployments; the Redis store is the drop-in
// replacement for anything bigger.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]auth.Token
	byUser map[kernel.UserID]map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]auth.Token),
		byUser: make(map[kernel.UserID]map[string]struct{}),
	}
}

// Put upserts by token value and sweeps expired entries inline. The sweep
// is amortized cleanup on the write path, not a background job.
func (s *MemoryTokenStore) Put(ctx context.Context, t auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(t.Value)
	s.tokens[t.Value] = t
	if s.byUser[t.UserID] == nil {
		s.byUser[t.UserID] = make(map[string]struct{})
	}
	s.byUser[t.UserID][t.Value] = struct{}{}

	s.sweepLocked(time.Now())
	return nil
}

func (s *MemoryTokenStore) Get(ctx context.Context, value string) (*auth.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[value]
	if !ok {
		return nil, nil
	}
	out := t
	return &out, nil
}

func (s *MemoryTokenStore) DeleteByValue(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(value)
	return nil
}

func (s *MemoryTokenStore) DeleteAllForUser(ctx context.Context, userID kernel.UserID, kinds ...auth.TokenKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for value := range s.byUser[userID] {
		if len(kinds) > 0 && !kindMatches(s.tokens[value].Kind, kinds) {
			continue
		}
		s.removeLocked(value)
	}
	return nil
}

func (s *MemoryTokenStore) SweepExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(time.Now())
	return nil
}

func (s *MemoryTokenStore) removeLocked(value string) {
	t, ok := s.tokens[value]
	if !ok {
		return
	}
	delete(s.tokens, value)
	if set := s.byUser[t.UserID]; set != nil {
		delete(set, value)
		if len(set) == 0 {
			delete(s.byUser, t.UserID)
		}
	}
}

func (s *MemoryTokenStore) sweepLocked(now time.Time) {
	for value, t := range s.tokens {
		if now.After(t.ExpiresAt) {
			s.removeLocked(value)
		}
	}
}

func kindMatches(kind auth.TokenKind, kinds []auth.TokenKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

var _ auth.TokenStore = (*MemoryTokenStore)(nil)
