package config

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        string
	Environment string
	CORSOrigins string
}

// IsProduction reports whether cookies must be marked Secure.
func (c *ServerConfig) IsProduction() bool { return c.Environment == "production" }

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}
