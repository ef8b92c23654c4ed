package botinfra

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
)

// OpenAIReplyProvider implements bot.ReplyProvider on the OpenAI chat
// completions API.
type OpenAIReplyProvider struct {
	client openai.Client
}

func NewOpenAIReplyProvider(apiKey string) *OpenAIReplyProvider {
	return &OpenAIReplyProvider{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (p *OpenAIReplyProvider) Reply(ctx context.Context, b *bot.Bot, history []*conversation.Message, incoming string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if b.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(b.SystemPrompt))
	}
	for _, m := range history {
		if m.Direction == conversation.DirectionInbound {
			messages = append(messages, openai.UserMessage(m.Body))
		} else {
			messages = append(messages, openai.AssistantMessage(m.Body))
		}
	}
	messages = append(messages, openai.UserMessage(incoming))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(b.Model),
	}
	if b.Temperature != 0 {
		params.Temperature = openai.Float(b.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", bot.ErrProviderFailed(err).WithDetail("provider", string(bot.ProviderOpenAI))
	}
	if len(completion.Choices) == 0 {
		return "", bot.ErrProviderFailed(nil).WithDetail("reason", "empty completion")
	}
	return completion.Choices[0].Message.Content, nil
}

var _ bot.ReplyProvider = (*OpenAIReplyProvider)(nil)
