package middlewares

import (
	"log/slog"
	"time"

	"github.com/hearthstack/hearth/internal"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are exact request paths that are not logged (health probes).
	SkipPaths []string
}

// LoggingOption configures LoggingConfig.
type LoggingOption func(*LoggingConfig)

// WithLoggingSkipPaths suppresses logging for the given exact paths.
func WithLoggingSkipPaths(paths ...string) LoggingOption {
	return func(cfg *LoggingConfig) {
		cfg.SkipPaths = append(cfg.SkipPaths, paths...)
	}
}

// Logging returns middleware that logs one line per request: method, path,
// duration, and the handler's error if any. Errors still propagate to the
// error handler.
func Logging(opts ...LoggingOption) internal.Middleware {
	cfg := &LoggingConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			if _, ok := skip[path]; ok {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				c.LogWarn("request failed", attrs...)
			} else {
				c.LogInfo("request handled", attrs...)
			}

			return err
		}
	}
}
