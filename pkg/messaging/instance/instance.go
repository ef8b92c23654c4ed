package instance

import (
	"net/http"
	"time"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Status is the connection state of a WhatsApp instance.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// Instance is a WhatsApp line owned by a user.
type Instance struct {
	ID         kernel.InstanceID `db:"id" json:"id"`
	UserID     kernel.UserID     `db:"user_id" json:"user_id"`
	TenantID   kernel.TenantID   `db:"tenant_id" json:"tenant_id"`
	Name       string            `db:"name" json:"name"`
	Phone      string            `db:"phone" json:"phone"`
	Status     Status            `db:"status" json:"status"`
	WebhookURL string            `db:"webhook_url" json:"webhook_url"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the instance belongs to the given user.
func (i *Instance) OwnedBy(userID kernel.UserID) bool {
	return i.UserID == userID
}

var ErrRegistry = errx.NewRegistry("INSTANCE")

var (
	CodeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Instance not found")
	CodeInvalidInput = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Missing or malformed input")
)

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrInvalidInput(msg string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, msg)
}

func IsNotFound(err error) bool { return errx.HasCode(err, CodeNotFound) }
