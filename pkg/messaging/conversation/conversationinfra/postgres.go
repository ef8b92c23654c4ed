package conversationinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
)

// PostgresConversationRepository implements conversation.Repository on
// PostgreSQL.
type PostgresConversationRepository struct {
	db *sqlx.DB
}

func NewPostgresConversationRepository(db *sqlx.DB) conversation.Repository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) SaveConversation(ctx context.Context, c *conversation.Conversation) error {
	query := `
		INSERT INTO conversations (id, instance_id, contact, created_at, last_message_at)
		VALUES (:id, :instance_id, :contact, :created_at, :last_message_at)
		ON CONFLICT (id) DO UPDATE SET last_message_at = EXCLUDED.last_message_at`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return errx.Wrap(err, "failed to save conversation", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresConversationRepository) FindConversation(ctx context.Context, id kernel.ConversationID) (*conversation.Conversation, error) {
	var conv conversation.Conversation
	query := `SELECT * FROM conversations WHERE id = $1`
	err := r.db.GetContext(ctx, &conv, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, conversation.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find conversation", errx.TypeInternal)
	}
	return &conv, nil
}

func (r *PostgresConversationRepository) FindByInstanceAndContact(ctx context.Context, instanceID kernel.InstanceID, contact string) (*conversation.Conversation, error) {
	var conv conversation.Conversation
	query := `SELECT * FROM conversations WHERE instance_id = $1 AND contact = $2`
	err := r.db.GetContext(ctx, &conv, query, instanceID.String(), contact)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, conversation.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find conversation by contact", errx.TypeInternal)
	}
	return &conv, nil
}

func (r *PostgresConversationRepository) ListByInstance(ctx context.Context, instanceID kernel.InstanceID, limit, offset int) ([]*conversation.Conversation, error) {
	var convs []*conversation.Conversation
	query := `
		SELECT * FROM conversations WHERE instance_id = $1
		ORDER BY last_message_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &convs, query, instanceID.String(), limit, offset); err != nil {
		return nil, errx.Wrap(err, "failed to list conversations", errx.TypeInternal)
	}
	return convs, nil
}

func (r *PostgresConversationRepository) AppendMessage(ctx context.Context, m *conversation.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, direction, body, created_at)
		VALUES (:id, :conversation_id, :direction, :body, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return errx.Wrap(err, "failed to append message", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresConversationRepository) ListMessages(ctx context.Context, id kernel.ConversationID, limit, offset int) ([]*conversation.Message, error) {
	var msgs []*conversation.Message
	query := `
		SELECT * FROM messages WHERE conversation_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &msgs, query, id.String(), limit, offset); err != nil {
		return nil, errx.Wrap(err, "failed to list messages", errx.TypeInternal)
	}
	return msgs, nil
}
