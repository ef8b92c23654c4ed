package config

import "time"

// insecureDevSecret is used when JWT_SECRET is unset. Fine for local
// development, never for production; the loader warns through IsInsecure.
const insecureDevSecret = "mensajero-dev-secret-do-not-use-in-prod"

// JWTConfig configures the token codec.
type JWTConfig struct {
	Secret               string
	Issuer               string
	Audience             string
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	RefreshTTLRemembered time.Duration
}

// IsInsecure reports whether the deployment is running on the development
// fallback secret.
func (c *JWTConfig) IsInsecure() bool { return c.Secret == insecureDevSecret }

// PasswordConfig configures the credential hasher.
type PasswordConfig struct {
	BcryptCost int
}

// SessionConfig configures token housekeeping.
type SessionConfig struct {
	CleanupInterval time.Duration
}

// AuthConfig groups everything the IAM module consumes.
type AuthConfig struct {
	JWT      JWTConfig
	Password PasswordConfig
	Session  SessionConfig

	// TokenStore selects the token store backend: "memory" or "redis".
	TokenStore string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			Secret:               getEnv("JWT_SECRET", insecureDevSecret),
			Issuer:               getEnv("JWT_ISSUER", "mensajero"),
			Audience:             getEnv("JWT_AUDIENCE", "mensajero-api"),
			AccessTTL:            time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", 15)) * time.Minute,
			RefreshTTL:           time.Duration(getEnvInt("JWT_REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,
			RefreshTTLRemembered: time.Duration(getEnvInt("JWT_REFRESH_TTL_REMEMBERED_DAYS", 30)) * 24 * time.Hour,
		},
		Password: PasswordConfig{
			BcryptCost: getEnvInt("AUTH_BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			CleanupInterval: getEnvDuration("AUTH_CLEANUP_INTERVAL", 10*time.Minute),
		},
		TokenStore: getEnv("TOKEN_STORE", "memory"),
	}
}
