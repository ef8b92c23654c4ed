package bot

import (
	"net/http"
	"time"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// Provider identifies which AI backend answers for a bot.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Bot is an automated responder attached to a user's account. Its system
// prompt and model are free-form; the provider must be one of the
// registered backends.
type Bot struct {
	ID           kernel.BotID  `db:"id" json:"id"`
	UserID       kernel.UserID `db:"user_id" json:"user_id"`
	Name         string        `db:"name" json:"name"`
	Provider     Provider      `db:"provider" json:"provider"`
	Model        string        `db:"model" json:"model"`
	SystemPrompt string        `db:"system_prompt" json:"system_prompt"`
	Temperature  float64       `db:"temperature" json:"temperature"`
	Enabled      bool          `db:"enabled" json:"enabled"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

func (b *Bot) OwnedBy(userID kernel.UserID) bool {
	return b.UserID == userID
}

var ErrRegistry = errx.NewRegistry("BOT")

var (
	CodeNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Bot not found")
	CodeInvalidInput    = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Missing or malformed input")
	CodeDisabled        = ErrRegistry.Register("DISABLED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Bot is disabled")
	CodeUnknownProvider = ErrRegistry.Register("UNKNOWN_PROVIDER", errx.TypeValidation, http.StatusBadRequest, "Unknown bot provider")
	CodeProviderFailed  = ErrRegistry.Register("PROVIDER_FAILED", errx.TypeExternal, http.StatusBadGateway, "Bot provider request failed")
)

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrInvalidInput(msg string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, msg)
}

func ErrDisabled() *errx.Error { return ErrRegistry.New(CodeDisabled) }

func ErrUnknownProvider() *errx.Error { return ErrRegistry.New(CodeUnknownProvider) }

func ErrProviderFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeProviderFailed, cause)
}

func IsNotFound(err error) bool { return errx.HasCode(err, CodeNotFound) }
