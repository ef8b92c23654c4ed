package conversation

import (
	"context"

	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Repository persists conversations and their messages.
type Repository interface {
	SaveConversation(ctx context.Context, c *Conversation) error
	FindConversation(ctx context.Context, id kernel.ConversationID) (*Conversation, error)

	// FindByInstanceAndContact returns ErrNotFound when no thread exists
	// yet for that contact.
	FindByInstanceAndContact(ctx context.Context, instanceID kernel.InstanceID, contact string) (*Conversation, error)

	ListByInstance(ctx context.Context, instanceID kernel.InstanceID, limit, offset int) ([]*Conversation, error)

	AppendMessage(ctx context.Context, m *Message) error

	// ListMessages returns messages newest first.
	ListMessages(ctx context.Context, id kernel.ConversationID, limit, offset int) ([]*Message, error)
}
