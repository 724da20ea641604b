package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures error reporting.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level forwarded as Sentry logs; errors always
	// create events.
	MinLevel slog.Level
}

// NewWithSentry creates a logger that writes JSON to stdout and forwards
// warnings and errors to Sentry. An empty DSN or a failed init falls back to
// stdout only, so local development needs no special casing.
func NewWithSentry(cfg SentryConfig, opts ...Option) *slog.Logger {
	s := settings{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}
	local := s.handler()

	if cfg.DSN == "" {
		return slog.New(NewExtractorHandler(local, s.extras...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(NewExtractorHandler(local, s.extras...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewExtractorHandler(newMultiHandler(local, remote), s.extras...))
}
