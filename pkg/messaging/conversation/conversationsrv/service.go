package conversationsrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instancesrv"
)

const defaultPageSize = 50

type ConversationService struct {
	repo      conversation.Repository
	instances *instancesrv.InstanceService
}

func NewConversationService(repo conversation.Repository, instances *instancesrv.InstanceService) *ConversationService {
	return &ConversationService{repo: repo, instances: instances}
}

// Record appends a message to the contact's thread on the given instance,
// creating the thread on first contact. The instance must belong to the
// caller.
func (s *ConversationService) Record(ctx context.Context, owner kernel.UserID, instanceID kernel.InstanceID, contact string, direction conversation.Direction, body string) (*conversation.Message, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" || strings.TrimSpace(body) == "" {
		return nil, conversation.ErrInvalidInput("contact and body are required")
	}
	if _, err := s.instances.Get(ctx, owner, instanceID); err != nil {
		return nil, err
	}

	conv, err := s.findOrCreate(ctx, instanceID, contact)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Direction:      direction,
		Body:           body,
		CreatedAt:      now,
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, errx.Wrap(err, "failed to append message", errx.TypeInternal)
	}

	conv.LastMessageAt = now
	if err := s.repo.SaveConversation(ctx, conv); err != nil {
		return nil, errx.Wrap(err, "failed to touch conversation", errx.TypeInternal)
	}
	return msg, nil
}

// List returns an instance's conversations, most recent activity first.
func (s *ConversationService) List(ctx context.Context, owner kernel.UserID, instanceID kernel.InstanceID, limit, offset int) ([]*conversation.Conversation, error) {
	if _, err := s.instances.Get(ctx, owner, instanceID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.repo.ListByInstance(ctx, instanceID, limit, offset)
}

// History returns a conversation's messages, newest first.
func (s *ConversationService) History(ctx context.Context, owner kernel.UserID, id kernel.ConversationID, limit, offset int) ([]*conversation.Message, error) {
	conv, err := s.repo.FindConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ownership runs through the instance; a foreign conversation is a
	// plain not-found.
	if _, err := s.instances.Get(ctx, owner, conv.InstanceID); err != nil {
		return nil, conversation.ErrNotFound()
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.repo.ListMessages(ctx, id, limit, offset)
}

// Recent returns up to n latest messages in chronological order, for
// building a bot's context window.
func (s *ConversationService) Recent(ctx context.Context, id kernel.ConversationID, n int) ([]*conversation.Message, error) {
	msgs, err := s.repo.ListMessages(ctx, id, n, 0)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Find returns the conversation record itself (no ownership check; used
// by internal callers that already verified it).
func (s *ConversationService) Find(ctx context.Context, id kernel.ConversationID) (*conversation.Conversation, error) {
	return s.repo.FindConversation(ctx, id)
}

func (s *ConversationService) findOrCreate(ctx context.Context, instanceID kernel.InstanceID, contact string) (*conversation.Conversation, error) {
	conv, err := s.repo.FindByInstanceAndContact(ctx, instanceID, contact)
	if err == nil {
		return conv, nil
	}
	if !conversation.IsNotFound(err) {
		return nil, errx.Wrap(err, "failed to look up conversation", errx.TypeInternal)
	}

	now := time.Now().UTC()
	conv = &conversation.Conversation{
		ID:            kernel.NewConversationID(uuid.NewString()),
		InstanceID:    instanceID,
		Contact:       contact,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if err := s.repo.SaveConversation(ctx, conv); err != nil {
		return nil, errx.Wrap(err, "failed to create conversation", errx.TypeInternal)
	}
	return conv, nil
}
