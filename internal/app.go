package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hearthstack/hearth/pkg/cookie"
	"github.com/hearthstack/hearth/pkg/health"
	"github.com/hearthstack/hearth/pkg/logger"
	"github.com/hearthstack/hearth/pkg/session"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// acquireFunc checks out one database connection for a request.
type acquireFunc func(ctx context.Context) (releasableConn, error)

// App owns the router and everything a request context needs: logger,
// cookie manager, session store, database pool, identity resolver. It is
// immutable after New.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookies                 *cookie.Manager
	sessions                *session.Store
	acquireConn             acquireFunc
	identityResolver        IdentityResolver
	routeNames              map[string]string
	middlewares             []Middleware
	handlers                []Handler
	staticRoutes            []staticRoute
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates an application from options. The App is immutable after this
// returns.
//
// Example:
//
//	app := hearth.New(
//	    hearth.WithSessions(store),
//	    hearth.WithDatabase(pool),
//	    hearth.WithHandlers(handlers.NewEntries(views)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:     chi.NewRouter(),
		logger:     logger.NewNope(),
		cookies:    cookie.New(),
		routeNames: make(map[string]string),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", hearth.Logger(log), hearth.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.dispatchFunc(a.notFoundHandler, nil))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.dispatchFunc(a.methodNotAllowedHandler, nil))
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath,
			health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// dispatchFunc wires one handler (plus its middleware chain) into the
// buffered dispatch sequence.
func (a *App) dispatchFunc(h HandlerFunc, routeMW []Middleware) http.HandlerFunc {
	// Global middleware first, then route middleware, innermost last.
	for i := len(routeMW) - 1; i >= 0; i-- {
		h = routeMW[i](h)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		a.dispatch(w, r, h)
	}
}

// dispatch runs one request through the full sequence: build the context,
// run the handler against the buffer, render any error into the buffer, save
// the session into the buffered headers, and only then flush to the real
// connection. The session cookie always travels with the response it belongs
// to, and a failed render never leaks partial output.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request, h HandlerFunc) {
	buf := NewResponseBuffer()

	c, err := a.newContext(buf, r)
	if err != nil {
		// No context, no session to save. Answer directly.
		a.logger.ErrorContext(r.Context(), "request context creation failed",
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer c.Close()

	if err := a.runHandler(c, h); err != nil {
		buf.Reset()
		a.handleError(c, err)
	}

	if a.sessions != nil && c.sess != nil && c.sess.IsDirty() {
		if err := a.sessions.Save(c.sess, buf); err != nil {
			a.logger.ErrorContext(r.Context(), "session save failed",
				slog.String("error", err.Error()))
			buf.Reset()
			buf.WriteHeader(http.StatusInternalServerError)
			_, _ = buf.Write([]byte("Internal Server Error"))
		}
	}

	buf.Apply(w)
}

// runHandler executes the handler, converting a panic into an error so the
// request still completes the error, session, and flush steps.
func (a *App) runHandler(c *requestContext, h HandlerFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInternal("internal server error"), p)
		}
	}()
	return h(c)
}

// handleError renders err into the (already reset) buffer.
func (a *App) handleError(c *requestContext, err error) {
	handler := a.errorHandler
	if handler == nil {
		handler = a.defaultErrorHandler
	}
	if ehErr := handler(c, err); ehErr != nil {
		a.logger.ErrorContext(c.request.Context(), "error handler failed",
			slog.String("error", ehErr.Error()))
		c.buffer.Reset()
		c.buffer.WriteHeader(http.StatusInternalServerError)
		_, _ = c.buffer.Write([]byte("Internal Server Error"))
	}
}

// defaultErrorHandler answers HTTPErrors with their status and message, and
// everything else (including ProgrammerErrors, which it logs loudly) with a
// generic 500.
func (a *App) defaultErrorHandler(c Context, err error) error {
	if httpErr := AsHTTPError(err); httpErr != nil {
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.String("error", err.Error()))
		}
		return c.String(httpErr.Code, httpErr.Message)
	}

	if IsProgrammerError(err) {
		c.LogError("programmer error", slog.String("error", err.Error()))
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	c.LogError("unhandled error", slog.String("error", err.Error()))
	return c.String(http.StatusInternalServerError, "Internal Server Error")
}

// healthConfig holds health endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
// Example:
//
//	hearth.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
