package user

import (
	"context"

	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Repository is the user directory contract. Implementations must enforce
// case-insensitive email uniqueness atomically on Create (a unique
// constraint or equivalent), not by a separate read-then-write.
type Repository interface {
	// FindByEmail looks a user up by email. The lookup is performed on the
	// normalized (lowercased) form. Returns ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns ErrNotFound when absent.
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)

	// Create inserts a new, active user. Returns ErrEmailTaken when the
	// email is already registered (any casing).
	Create(ctx context.Context, n NewUser) (*User, error)

	// Update persists mutable profile fields (name, active flag).
	Update(ctx context.Context, u *User) (*User, error)

	// GetPasswordHash returns the stored hash for a user, or ErrNotFound.
	GetPasswordHash(ctx context.Context, id kernel.UserID) (string, error)
}
