package auth

import (
	"net/http"
	"time"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// ============================================================================
// Token Types
// ============================================================================

// TokenKind distinguishes the two credentials the system issues.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Token is an issued credential as recorded by the token store. The store
// is authoritative for revocation: a signed token that is absent here is
// dead regardless of its own expiry claim.
type Token struct {
	Value     string          `db:"value" json:"value"`
	Kind      TokenKind       `db:"kind" json:"kind"`
	UserID    kernel.UserID   `db:"user_id" json:"user_id"`
	TenantID  kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	IssuedAt  time.Time       `db:"issued_at" json:"issued_at"`
	ExpiresAt time.Time       `db:"expires_at" json:"expires_at"`
}

// IsExpired checks the stored expiry, independent of the signed claim.
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IssuedToken is what the codec hands back on issuance: the signed value
// plus the timestamps the orchestrator persists to the store.
type IssuedToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ============================================================================
// Claims
// ============================================================================

// AccessClaims is the verified payload of an access token.
type AccessClaims struct {
	UserID    kernel.UserID
	TenantID  kernel.TenantID
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims is the verified payload of a refresh token. It carries
// less than AccessClaims on purpose; a refresh token only proves the right
// to mint a new access token.
type RefreshClaims struct {
	UserID    kernel.UserID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ============================================================================
// Results
// ============================================================================

// Session is the result of a successful login or registration.
type Session struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

// Refreshed is the result of a token refresh. The refresh token is not
// rotated: the original stays valid until its own expiry or logout.
type Refreshed struct {
	AccessToken string `json:"access_token"`
}

// ============================================================================
// Error Registry
// ============================================================================

// The credential and token rejections are single payload-free variants on
// purpose. A caller can never learn whether an email exists, whether a
// user is inactive, or why a token was refused.
var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidInput       = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Missing or malformed input")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodeUnauthorized       = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeTokenGeneration    = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
)

func ErrInvalidInput() *errx.Error { return ErrRegistry.New(CodeInvalidInput) }

func ErrInvalidInputMsg(msg string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, msg)
}

func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }

func ErrUnauthorized() *errx.Error { return ErrRegistry.New(CodeUnauthorized) }

func ErrTokenGeneration(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeTokenGeneration, cause)
}
