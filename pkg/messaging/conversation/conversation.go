package conversation

import (
	"net/http"
	"time"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Direction tells whether a message came from the contact or was sent by
// the instance (human agent or bot).
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Conversation is one thread between an instance and a contact phone.
type Conversation struct {
	ID            kernel.ConversationID `db:"id" json:"id"`
	InstanceID    kernel.InstanceID     `db:"instance_id" json:"instance_id"`
	Contact       string                `db:"contact" json:"contact"`
	CreatedAt     time.Time             `db:"created_at" json:"created_at"`
	LastMessageAt time.Time             `db:"last_message_at" json:"last_message_at"`
}

// Message is one entry in a conversation's history.
type Message struct {
	ID             string                `db:"id" json:"id"`
	ConversationID kernel.ConversationID `db:"conversation_id" json:"conversation_id"`
	Direction      Direction             `db:"direction" json:"direction"`
	Body           string                `db:"body" json:"body"`
	CreatedAt      time.Time             `db:"created_at" json:"created_at"`
}

var ErrRegistry = errx.NewRegistry("CONVERSATION")

var (
	CodeNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Conversation not found")
	CodeInvalidInput = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Missing or malformed input")
)

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrInvalidInput(msg string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, msg)
}

func IsNotFound(err error) bool { return errx.HasCode(err, CodeNotFound) }
