// Package logx is the logging facade for the whole application. It keeps a
// small global API (Info, Warnf, WithFields, ...) in front of zerolog so
// call sites never depend on the backend directly.
package logx

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields is a set of structured fields attached to a log entry.
type Fields map[string]any

// Level is the minimum severity that gets written.
type Level int8

const (
	LevelTrace Level = iota - 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

var base zerolog.Logger

func init() {
	base = newFromEnv()
}

// newFromEnv builds the backend logger from LOG_LEVEL and LOG_FORMAT
// (console|json, console by default).
func newFromEnv() zerolog.Logger {
	var out = zerolog.New(os.Stdout)
	if strings.ToLower(os.Getenv("LOG_FORMAT")) != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	lvl := ParseLevel(os.Getenv("LOG_LEVEL"))
	return out.Level(zerolog.Level(lvl)).With().Timestamp().Logger()
}

// SetLevel changes the global minimum level.
func SetLevel(level Level) {
	base = base.Level(zerolog.Level(level))
}

func Trace(msg string)                  { base.Trace().Msg(msg) }
func Debug(msg string)                  { base.Debug().Msg(msg) }
func Info(msg string)                   { base.Info().Msg(msg) }
func Warn(msg string)                   { base.Warn().Msg(msg) }
func Error(msg string)                  { base.Error().Msg(msg) }
func Fatal(msg string)                  { base.Fatal().Msg(msg) }
func Tracef(format string, args ...any) { base.Trace().Msgf(format, args...) }
func Debugf(format string, args ...any) { base.Debug().Msgf(format, args...) }
func Infof(format string, args ...any)  { base.Info().Msgf(format, args...) }
func Warnf(format string, args ...any)  { base.Warn().Msgf(format, args...) }
func Errorf(format string, args ...any) { base.Error().Msgf(format, args...) }
func Fatalf(format string, args ...any) { base.Fatal().Msgf(format, args...) }

// WithFields starts an entry with structured fields.
func WithFields(fields Fields) *Entry {
	return &Entry{logger: base.With().Fields(map[string]any(fields)).Logger()}
}

// WithField starts an entry with a single field.
func WithField(key string, value any) *Entry {
	return WithFields(Fields{key: value})
}

// WithError starts an entry carrying an error field.
func WithError(err error) *Entry {
	return &Entry{logger: base.With().AnErr("error", err).Logger()}
}

// Entry is a logger with fields already bound.
type Entry struct {
	logger zerolog.Logger
}

func (e *Entry) WithField(key string, value any) *Entry {
	return &Entry{logger: e.logger.With().Fields(map[string]any{key: value}).Logger()}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{logger: e.logger.With().AnErr("error", err).Logger()}
}

func (e *Entry) Trace(msg string)                  { e.logger.Trace().Msg(msg) }
func (e *Entry) Debug(msg string)                  { e.logger.Debug().Msg(msg) }
func (e *Entry) Info(msg string)                   { e.logger.Info().Msg(msg) }
func (e *Entry) Warn(msg string)                   { e.logger.Warn().Msg(msg) }
func (e *Entry) Error(msg string)                  { e.logger.Error().Msg(msg) }
func (e *Entry) Fatal(msg string)                  { e.logger.Fatal().Msg(msg) }
func (e *Entry) Debugf(format string, args ...any) { e.logger.Debug().Msgf(format, args...) }
func (e *Entry) Infof(format string, args ...any)  { e.logger.Info().Msgf(format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.logger.Warn().Msgf(format, args...) }
func (e *Entry) Errorf(format string, args ...any) { e.logger.Error().Msgf(format, args...) }
