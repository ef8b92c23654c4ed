package botinfra

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
)

const anthropicMaxTokens = 1024

// AnthropicReplyProvider implements bot.ReplyProvider on the Anthropic
// Messages API.
type AnthropicReplyProvider struct {
	client anthropic.Client
}

func NewAnthropicReplyProvider(apiKey string) *AnthropicReplyProvider {
	return &AnthropicReplyProvider{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

func (p *AnthropicReplyProvider) Reply(ctx context.Context, b *bot.Bot, history []*conversation.Message, incoming string) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		block := anthropic.NewTextBlock(m.Body)
		if m.Direction == conversation.DirectionInbound {
			messages = append(messages, anthropic.NewUserMessage(block))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(incoming)))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.Model),
		MaxTokens: anthropicMaxTokens,
		Messages:  messages,
	}
	if b.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: b.SystemPrompt}}
	}
	if b.Temperature != 0 {
		params.Temperature = anthropic.Float(b.Temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", bot.ErrProviderFailed(err).WithDetail("provider", string(bot.ProviderAnthropic))
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", bot.ErrProviderFailed(nil).WithDetail("reason", "empty completion")
	}
	return sb.String(), nil
}

var _ bot.ReplyProvider = (*AnthropicReplyProvider)(nil)
