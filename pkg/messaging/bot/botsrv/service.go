package botsrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation/conversationsrv"
)

type BotService struct {
	repo          bot.Repository
	providers     map[bot.Provider]bot.ReplyProvider
	conversations *conversationsrv.ConversationService
	historyWindow int
}

func NewBotService(repo bot.Repository, providers map[bot.Provider]bot.ReplyProvider, conversations *conversationsrv.ConversationService, historyWindow int) *BotService {
	if historyWindow <= 0 {
		historyWindow = 20
	}
	return &BotService{
		repo:          repo,
		providers:     providers,
		conversations: conversations,
		historyWindow: historyWindow,
	}
}

type CreateInput struct {
	Name         string  `json:"name"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

type UpdateInput struct {
	Name         *string  `json:"name"`
	Model        *string  `json:"model"`
	SystemPrompt *string  `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
	Enabled      *bool    `json:"enabled"`
}

func (s *BotService) Create(ctx context.Context, owner kernel.UserID, in CreateInput) (*bot.Bot, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Model) == "" {
		return nil, bot.ErrInvalidInput("name and model are required")
	}
	provider := bot.Provider(in.Provider)
	if _, ok := s.providers[provider]; !ok {
		return nil, bot.ErrUnknownProvider().WithDetail("provider", in.Provider)
	}

	now := time.Now().UTC()
	b := &bot.Bot{
		ID:           kernel.NewBotID(uuid.NewString()),
		UserID:       owner,
		Name:         name,
		Provider:     provider,
		Model:        in.Model,
		SystemPrompt: in.SystemPrompt,
		Temperature:  in.Temperature,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, errx.Wrap(err, "failed to create bot", errx.TypeInternal)
	}
	return b, nil
}

func (s *BotService) List(ctx context.Context, owner kernel.UserID) ([]*bot.Bot, error) {
	return s.repo.FindByUser(ctx, owner)
}

// Get returns the bot only to its owner; foreign bots are not-found.
func (s *BotService) Get(ctx context.Context, owner kernel.UserID, id kernel.BotID) (*bot.Bot, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(owner) {
		return nil, bot.ErrNotFound()
	}
	return b, nil
}

func (s *BotService) Update(ctx context.Context, owner kernel.UserID, id kernel.BotID, in UpdateInput) (*bot.Bot, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, bot.ErrInvalidInput("name cannot be empty")
		}
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Model != nil {
		b.Model = *in.Model
	}
	if in.SystemPrompt != nil {
		b.SystemPrompt = *in.SystemPrompt
	}
	if in.Temperature != nil {
		b.Temperature = *in.Temperature
	}
	if in.Enabled != nil {
		b.Enabled = *in.Enabled
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, errx.Wrap(err, "failed to update bot", errx.TypeInternal)
	}
	return b, nil
}

func (s *BotService) Delete(ctx context.Context, owner kernel.UserID, id kernel.BotID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Reply records an inbound contact message, asks the bot's provider for
// an answer over the recent history window, and records the answer as an
// outbound message.
func (s *BotService) Reply(ctx context.Context, owner kernel.UserID, botID kernel.BotID, instanceID kernel.InstanceID, contact, incoming string) (*conversation.Message, error) {
	if strings.TrimSpace(incoming) == "" {
		return nil, bot.ErrInvalidInput("message is required")
	}

	b, err := s.Get(ctx, owner, botID)
	if err != nil {
		return nil, err
	}
	if !b.Enabled {
		return nil, bot.ErrDisabled()
	}
	provider, ok := s.providers[b.Provider]
	if !ok {
		return nil, bot.ErrUnknownProvider().WithDetail("provider", string(b.Provider))
	}

	inMsg, err := s.conversations.Record(ctx, owner, instanceID, contact, conversation.DirectionInbound, incoming)
	if err != nil {
		return nil, err
	}

	history, err := s.conversations.Recent(ctx, inMsg.ConversationID, s.historyWindow)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load history", errx.TypeInternal)
	}
	// The just-recorded inbound message is passed separately.
	if n := len(history); n > 0 && history[n-1].ID == inMsg.ID {
		history = history[:n-1]
	}

	answer, err := provider.Reply(ctx, b, history, incoming)
	if err != nil {
		return nil, err
	}

	return s.conversations.Record(ctx, owner, instanceID, contact, conversation.DirectionOutbound, answer)
}
