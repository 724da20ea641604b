package hearth

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthstack/hearth/internal"
)

// Run options

// Logger sets the server lifecycle logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, including hooks. Defaults to 30
// seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before serving. A failing hook
// aborts startup.
//
// Example:
//
//	hearth.StartupHook(func(ctx context.Context) error {
//	    return db.Migrate(ctx, pool, migrations, "", log)
//	})
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run during shutdown, in
// registration order.
//
// Example:
//
//	hearth.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
