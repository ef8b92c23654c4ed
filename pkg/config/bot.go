package config

// BotConfig configures the AI reply providers available to bots.
type BotConfig struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// HistoryWindow is how many prior messages a bot sees when replying.
	HistoryWindow int
}

func loadBotConfig() BotConfig {
	return BotConfig{
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		HistoryWindow:   getEnvInt("BOT_HISTORY_WINDOW", 20),
	}
}
