package authinfra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

const (
	tokenKeyPrefix = "auth:token:"
	userKeyPrefix  = "auth:user:"
)

// RedisTokenStore is the externally-backed auth.TokenStore: token records
// live under per-value keys with a native TTL, and a per-user hash
// (value -> kind) indexes them for bulk revocation. Natural expiry is
// handled by Redis itself; sweeps only prune stale index entries.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(value string) string    { return tokenKeyPrefix + value }
func userKey(id kernel.UserID) string { return userKeyPrefix + id.String() }

func (s *RedisTokenStore) Put(ctx context.Context, t auth.Token) error {
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return errx.Wrap(err, "failed to encode token", errx.TypeInternal)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(t.Value), payload, ttl)
	pipe.HSet(ctx, userKey(t.UserID), t.Value, string(t.Kind))
	if _, err := pipe.Exec(ctx); err != nil {
		return errx.Wrap(err, "failed to store token", errx.TypeInternal)
	}

	// Amortized cleanup: prune this user's index entries whose value keys
	// have already expired.
	return s.pruneUser(ctx, t.UserID)
}

func (s *RedisTokenStore) Get(ctx context.Context, value string) (*auth.Token, error) {
	payload, err := s.client.Get(ctx, tokenKey(value)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to read token", errx.TypeInternal)
	}

	var t auth.Token
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, errx.Wrap(err, "failed to decode token", errx.TypeInternal)
	}
	return &t, nil
}

func (s *RedisTokenStore) DeleteByValue(ctx context.Context, value string) error {
	t, err := s.Get(ctx, value)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKey(value))
	if t != nil {
		pipe.HDel(ctx, userKey(t.UserID), value)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errx.Wrap(err, "failed to delete token", errx.TypeInternal)
	}
	return nil
}

func (s *RedisTokenStore) DeleteAllForUser(ctx context.Context, userID kernel.UserID, kinds ...auth.TokenKind) error {
	entries, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return errx.Wrap(err, "failed to list user tokens", errx.TypeInternal)
	}
	if len(entries) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	remaining := len(entries)
	for value, kind := range entries {
		if len(kinds) > 0 && !kindMatches(auth.TokenKind(kind), kinds) {
			continue
		}
		pipe.Del(ctx, tokenKey(value))
		pipe.HDel(ctx, userKey(userID), value)
		remaining--
	}
	if remaining == 0 {
		pipe.Del(ctx, userKey(userID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errx.Wrap(err, "failed to revoke user tokens", errx.TypeInternal)
	}
	return nil
}

// SweepExpired prunes index entries for value keys Redis already expired.
func (s *RedisTokenStore) SweepExpired(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, userKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := kernel.NewUserID(iter.Val()[len(userKeyPrefix):])
		if err := s.pruneUser(ctx, id); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return errx.Wrap(err, "failed to scan token indexes", errx.TypeInternal)
	}
	return nil
}

func (s *RedisTokenStore) pruneUser(ctx context.Context, userID kernel.UserID) error {
	entries, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return errx.Wrap(err, "failed to list user tokens", errx.TypeInternal)
	}

	var stale []string
	for value := range entries {
		exists, err := s.client.Exists(ctx, tokenKey(value)).Result()
		if err != nil {
			return errx.Wrap(err, "failed to check token key", errx.TypeInternal)
		}
		if exists == 0 {
			stale = append(stale, value)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, userKey(userID), stale...).Err(); err != nil {
		return errx.Wrap(err, "failed to prune token index", errx.TypeInternal)
	}
	return nil
}

var _ auth.TokenStore = (*RedisTokenStore)(nil)
