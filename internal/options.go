package internal

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthstack/hearth/pkg/cookie"
	"github.com/hearthstack/hearth/pkg/health"
	"github.com/hearthstack/hearth/pkg/logger"
	"github.com/hearthstack/hearth/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware, applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers; each handler's Routes method is called
// during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	hearth.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServer(http.FS(subFS))
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	hearth.WithHealthChecks(
//	    hearth.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates the app logger with a component name and optional
// context extractors.
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.WithExtractors(extractors...)).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the plain-cookie manager used by the context
// cookie helpers.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookies = cookie.New(opts...)
	}
}

// WithSessions enables cookie-backed sessions. The dispatcher opens the
// session while building each request context and saves it into the buffered
// response headers before the body is flushed.
//
// Example:
//
//	store, err := session.NewStore(session.WithSecret(secret))
//	...
//	hearth.WithSessions(store)
func WithSessions(store *session.Store) Option {
	return func(a *App) {
		a.sessions = store
	}
}

// WithDatabase gives every request its own connection from the pool, checked
// out during context creation and released when the request ends. Pool
// exhaustion fails the request before the handler runs.
func WithDatabase(pool *pgxpool.Pool) Option {
	return func(a *App) {
		a.acquireConn = func(ctx context.Context) (releasableConn, error) {
			return pool.Acquire(ctx)
		}
	}
}

// WithIdentityResolver sets the function that turns a stored user ID into an
// Identity. Resolution is lazy: it runs on the first Identity() call of a
// request, against the request's own connection.
func WithIdentityResolver(fn IdentityResolver) Option {
	return func(a *App) {
		a.identityResolver = fn
	}
}
