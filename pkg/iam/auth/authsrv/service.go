// Package authsrv holds the authentication use cases: login, register,
// refresh, logout and the token validation predicates consumed by the
// request gate. All business rules and error classification live here;
// the service itself keeps no state between calls.
package authsrv

import (
	"context"
	"strings"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/logx"
)

const minPasswordLength = 6

type AuthService struct {
	users  user.Repository
	hasher auth.PasswordHasher
	codec  auth.TokenCodec
	store  auth.TokenStore
}

func NewAuthService(users user.Repository, hasher auth.PasswordHasher, codec auth.TokenCodec, store auth.TokenStore) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, store: store}
}

// LoginInput is the credential pair plus the optional extended-session
// request.
type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login verifies credentials and opens a session. Unknown email, inactive
// user and wrong password all surface as the same InvalidCredentials
// error so account existence cannot be probed. Input is checked before
// any directory I/O happens.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*auth.Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, auth.ErrInvalidInputMsg("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if user.IsNotFound(err) {
			return nil, auth.ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "login failed", errx.TypeInternal)
	}
	if !u.IsActive {
		return nil, auth.ErrInvalidCredentials()
	}

	hash, err := s.users.GetPasswordHash(ctx, u.ID)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, auth.ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "login failed", errx.TypeInternal)
	}
	if !s.hasher.Verify(in.Password, hash) {
		return nil, auth.ErrInvalidCredentials()
	}

	return s.openSession(ctx, u, in.RememberMe)
}

// Register creates an account and opens a session with a non-remembered
// refresh token. The duplicate-email check is the repository's unique
// constraint; two racing registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*auth.Session, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "" || in.Password == "" || name == "":
		return nil, auth.ErrInvalidInputMsg("email, password and name are required")
	case len(in.Password) < minPasswordLength:
		return nil, auth.ErrInvalidInputMsg("password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errx.Wrap(err, "registration failed", errx.TypeInternal)
	}

	u, err := s.users.Create(ctx, user.NewUser{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if user.IsEmailTaken(err) {
			return nil, err
		}
		return nil, errx.Wrap(err, "registration failed", errx.TypeInternal)
	}

	return s.openSession(ctx, u, false)
}

// Refresh exchanges a valid refresh token for a new access token. The
// stored entry is authoritative: a refresh token revoked by logout is
// refused even while its signature is still valid. The refresh token is
// not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.Refreshed, error) {
	if refreshToken == "" {
		return nil, auth.ErrInvalidInputMsg("refresh token is required")
	}

	claims, ok := s.codec.DecodeRefresh(refreshToken)
	if !ok {
		return nil, auth.ErrUnauthorized()
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, auth.ErrUnauthorized()
		}
		return nil, errx.Wrap(err, "refresh failed", errx.TypeInternal)
	}
	if !u.IsActive {
		return nil, auth.ErrUnauthorized()
	}

	stored, err := s.store.Get(ctx, refreshToken)
	if err != nil {
		return nil, errx.Wrap(err, "refresh failed", errx.TypeInternal)
	}
	if stored == nil || stored.Kind != auth.TokenKindRefresh || stored.IsExpired() {
		return nil, auth.ErrUnauthorized()
	}

	access, err := s.issueAndStore(ctx, u, auth.TokenKindAccess, false)
	if err != nil {
		return nil, err
	}
	return &auth.Refreshed{AccessToken: access.Value}, nil
}

// Logout revokes every stored token of the user, both kinds. Idempotent:
// a user with no tokens logs out successfully.
func (s *AuthService) Logout(ctx context.Context, userID kernel.UserID) error {
	if userID.IsEmpty() {
		return auth.ErrInvalidInputMsg("user id is required")
	}
	if err := s.store.DeleteAllForUser(ctx, userID); err != nil {
		return errx.Wrap(err, "logout failed", errx.TypeInternal)
	}
	return nil
}

// ValidateAccessToken resolves the identity behind an access token. It is
// a predicate for the request gate: every failure mode, including an
// unexpected store or directory fault, is a nil result. Faults are logged,
// never raised.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) *user.User {
	claims, ok := s.codec.DecodeAccess(token)
	if !ok {
		return nil
	}
	return s.resolveStored(ctx, token, auth.TokenKindAccess, claims.UserID)
}

// ValidateRefreshToken is ValidateAccessToken for refresh tokens.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, token string) *user.User {
	claims, ok := s.codec.DecodeRefresh(token)
	if !ok {
		return nil
	}
	return s.resolveStored(ctx, token, auth.TokenKindRefresh, claims.UserID)
}

// resolveStored runs the store and directory gates shared by both
// validators: the token must still be registered and unexpired, and the
// subject must exist and be active.
func (s *AuthService) resolveStored(ctx context.Context, token string, kind auth.TokenKind, userID kernel.UserID) *user.User {
	stored, err := s.store.Get(ctx, token)
	if err != nil {
		logx.WithError(err).Error("token validation: store lookup failed")
		return nil
	}
	if stored == nil || stored.Kind != kind || stored.IsExpired() {
		return nil
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !user.IsNotFound(err) {
			logx.WithError(err).Error("token validation: user lookup failed")
		}
		return nil
	}
	if !u.IsActive {
		return nil
	}
	return u
}

// openSession issues and persists one access and one refresh token. A
// failure after the password was verified is a hard error; it never
// downgrades to an unauthenticated result.
func (s *AuthService) openSession(ctx context.Context, u *user.User, remembered bool) (*auth.Session, error) {
	access, err := s.issueAndStore(ctx, u, auth.TokenKindAccess, false)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueAndStore(ctx, u, auth.TokenKindRefresh, remembered)
	if err != nil {
		return nil, err
	}
	return &auth.Session{User: u, AccessToken: access.Value, RefreshToken: refresh.Value}, nil
}

func (s *AuthService) issueAndStore(ctx context.Context, u *user.User, kind auth.TokenKind, remembered bool) (auth.IssuedToken, error) {
	var issued auth.IssuedToken
	var err error
	if kind == auth.TokenKindAccess {
		issued, err = s.codec.IssueAccess(u)
	} else {
		issued, err = s.codec.IssueRefresh(u, remembered)
	}
	if err != nil {
		return auth.IssuedToken{}, err
	}

	err = s.store.Put(ctx, auth.Token{
		Value:     issued.Value,
		Kind:      kind,
		UserID:    u.ID,
		TenantID:  u.TenantID,
		IssuedAt:  issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		return auth.IssuedToken{}, errx.Wrap(err, "failed to persist issued token", errx.TypeInternal)
	}
	return issued, nil
}

var _ auth.Validator = (*AuthService)(nil)
