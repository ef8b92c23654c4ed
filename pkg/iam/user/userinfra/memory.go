package userinfra

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// MemoryUserRepository is an in-process user.Repository used in tests and
// single-node development setups. Email uniqueness is enforced under the
// same lock as the insert, mirroring the database unique constraint.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[kernel.UserID]*memoryUser
	byEmail map[string]kernel.UserID
}

type memoryUser struct {
	user user.User
	hash string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[kernel.UserID]*memoryUser),
		byEmail: make(map[string]kernel.UserID),
	}
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound()
	}
	u := r.byID[id].user
	return &u, nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound()
	}
	u := rec.user
	return &u, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, n user.NewUser) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := user.NormalizeEmail(n.Email)
	if _, taken := r.byEmail[email]; taken {
		return nil, user.ErrEmailTaken()
	}

	now := time.Now().UTC()
	u := user.User{
		ID:        kernel.NewUserID(uuid.NewString()),
		TenantID:  n.TenantID,
		Email:     email,
		Name:      n.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[u.ID] = &memoryUser{user: u, hash: n.PasswordHash}
	r.byEmail[email] = u.ID

	out := u
	return &out, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[u.ID]
	if !ok {
		return nil, user.ErrNotFound()
	}
	rec.user.Name = u.Name
	rec.user.IsActive = u.IsActive
	rec.user.UpdatedAt = time.Now().UTC()

	out := rec.user
	return &out, nil
}

func (r *MemoryUserRepository) GetPasswordHash(ctx context.Context, id kernel.UserID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return "", user.ErrNotFound()
	}
	return rec.hash, nil
}
