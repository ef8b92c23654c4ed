// Package messagingcontainer wires the messaging dependency graph:
// instances, conversations and bots.
package messagingcontainer

import (
	"github.com/jmoiron/sqlx"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/logx"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot/botapi"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot/botinfra"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot/botsrv"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation/conversationapi"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation/conversationinfra"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation/conversationsrv"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instanceapi"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instanceinfra"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instancesrv"
)

// Deps are the external dependencies this bounded context requires.
type Deps struct {
	DB  *sqlx.DB
	Cfg *config.Config
}

// Container is the public surface of the messaging module.
type Container struct {
	InstanceService      *instancesrv.InstanceService
	ConversationService  *conversationsrv.ConversationService
	BotService           *botsrv.BotService
	InstanceHandlers     *instanceapi.InstanceHandlers
	ConversationHandlers *conversationapi.ConversationHandlers
	BotHandlers          *botapi.BotHandlers
}

func New(deps Deps) *Container {
	c := &Container{}

	instanceRepo := instanceinfra.NewPostgresInstanceRepository(deps.DB)
	conversationRepo := conversationinfra.NewPostgresConversationRepository(deps.DB)
	botRepo := botinfra.NewPostgresBotRepository(deps.DB)

	c.InstanceService = instancesrv.NewInstanceService(instanceRepo)
	c.ConversationService = conversationsrv.NewConversationService(conversationRepo, c.InstanceService)
	c.BotService = botsrv.NewBotService(botRepo, replyProviders(deps.Cfg.Bot), c.ConversationService, deps.Cfg.Bot.HistoryWindow)

	c.InstanceHandlers = instanceapi.NewInstanceHandlers(c.InstanceService)
	c.ConversationHandlers = conversationapi.NewConversationHandlers(c.ConversationService)
	c.BotHandlers = botapi.NewBotHandlers(c.BotService)

	return c
}

// replyProviders builds the provider table from configured API keys.
// Providers without a key are simply absent; creating a bot against one
// fails with UNKNOWN_PROVIDER.
func replyProviders(cfg config.BotConfig) map[bot.Provider]bot.ReplyProvider {
	providers := make(map[bot.Provider]bot.ReplyProvider)
	if cfg.OpenAIAPIKey != "" {
		providers[bot.ProviderOpenAI] = botinfra.NewOpenAIReplyProvider(cfg.OpenAIAPIKey)
	}
	if cfg.AnthropicAPIKey != "" {
		providers[bot.ProviderAnthropic] = botinfra.NewAnthropicReplyProvider(cfg.AnthropicAPIKey)
	}
	if len(providers) == 0 {
		logx.Warn("no bot provider API keys configured, bot replies are unavailable")
	}
	return providers
}
