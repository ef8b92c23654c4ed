package bot

import (
	"context"

	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
)

// Repository persists bot definitions.
type Repository interface {
	Save(ctx context.Context, b *Bot) error
	FindByID(ctx context.Context, id kernel.BotID) (*Bot, error)
	FindByUser(ctx context.Context, userID kernel.UserID) ([]*Bot, error)
	Delete(ctx context.Context, id kernel.BotID) error
}

// ReplyProvider answers one conversation turn. History is in
// chronological order; incoming is the new contact message being
// answered.
type ReplyProvider interface {
	Reply(ctx context.Context, b *Bot, history []*conversation.Message, incoming string) (string, error)
}
