package auth

import (
	"context"

	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// TokenStore is the authoritative record of currently valid issued tokens.
// It is the only mutable shared state in the IAM core and must be safe for
// concurrent use; Put/Get/DeleteByValue for the same token value are
// linearizable.
type TokenStore interface {
	// Put upserts by token value: any pre-existing entry with the same
	// value is replaced. Implementations also sweep expired entries
	// opportunistically on every write.
	Put(ctx context.Context, t Token) error

	// Get returns the stored token, or (nil, nil) when absent.
	Get(ctx context.Context, value string) (*Token, error)

	// DeleteByValue removes one entry; removing a missing value is a no-op.
	DeleteByValue(ctx context.Context, value string) error

	// DeleteAllForUser removes every token of the user, or only the given
	// kinds when any are passed.
	DeleteAllForUser(ctx context.Context, userID kernel.UserID, kinds ...TokenKind) error

	// SweepExpired removes every expired entry. Idempotent.
	SweepExpired(ctx context.Context) error
}

// TokenCodec signs and verifies the self-contained bearer tokens. Decode
// collapses every failure mode (bad signature, expiry, wrong issuer or
// audience, wrong token type) into ok=false so callers cannot build an
// oracle out of the distinction.
type TokenCodec interface {
	IssueAccess(u *user.User) (IssuedToken, error)
	IssueRefresh(u *user.User, remembered bool) (IssuedToken, error)
	DecodeAccess(token string) (*AccessClaims, bool)
	DecodeRefresh(token string) (*RefreshClaims, bool)
}

// PasswordHasher hashes and verifies user passwords. Verify reports false
// for malformed hashes instead of failing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Validator is the slice of the orchestrator the request gate consumes.
// Both methods are predicates: every failure, expected or not, is a nil
// user, never an error.
type Validator interface {
	ValidateAccessToken(ctx context.Context, token string) *user.User
	ValidateRefreshToken(ctx context.Context, token string) *user.User
}
