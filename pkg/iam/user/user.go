package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// User is the identity record. The password hash deliberately lives
// outside this struct; it is only reachable through
// Repository.GetPasswordHash so general reads never carry it.
type User struct {
	ID        kernel.UserID   `db:"id" json:"id"`
	TenantID  kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	Email     string          `db:"email" json:"email"`
	Name      string          `db:"name" json:"name"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewUser is the data needed to create a user. Email is stored lowercased.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	TenantID     kernel.TenantID
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
// Email uniqueness is case-insensitive across the whole system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailTaken = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "Email is already registered")
)

func ErrNotFound() *errx.Error   { return ErrRegistry.New(CodeNotFound) }
func ErrEmailTaken() *errx.Error { return ErrRegistry.New(CodeEmailTaken) }

// IsNotFound reports whether err is the user-not-found error.
func IsNotFound(err error) bool { return errx.HasCode(err, CodeNotFound) }

// IsEmailTaken reports whether err is the duplicate-email conflict.
func IsEmailTaken(err error) bool { return errx.HasCode(err, CodeEmailTaken) }
