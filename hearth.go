package hearth

import (
	"github.com/hearthstack/hearth/internal"
	"github.com/hearthstack/hearth/pkg/cookie"
	"github.com/hearthstack/hearth/pkg/logger"
	"github.com/hearthstack/hearth/pkg/session"
)

// Type aliases - public API
type (
	// App owns the router, the session store, the database pool, and the
	// buffered request dispatcher.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Route is a registered route; Name makes it reversible.
	Route = internal.Route

	// Context carries one request: buffered response, database connection,
	// session, and lazily resolved identity.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler renders errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Identity is the resolved authenticated user.
	Identity = internal.Identity

	// IdentityResolver loads the identity behind a stored user ID.
	IdentityResolver = internal.IdentityResolver

	// HTTPError is a user-visible error with rendering data.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ProgrammerError marks a programming mistake detected at request time.
	ProgrammerError = internal.ProgrammerError

	// ResponseBuffer is the in-memory response the dispatcher flushes last.
	ResponseBuffer = internal.ResponseBuffer

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor pulls a log attribute out of a context.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// Session is a request's session: values, flashes, dirty tracking.
	Session = session.Session

	// SessionStore opens and saves cookie-backed sessions.
	SessionStore = session.Store

	// SessionOption configures the session store.
	SessionOption = session.StoreOption
)

// SessionUserKey is the session key holding the authenticated user's ID.
const SessionUserKey = internal.SessionUserKey

// New creates an application from options. The App is immutable after this
// returns.
//
// Example:
//
//	store, _ := session.NewStore(session.WithSecret(cfg.Secret))
//	app := hearth.New(
//	    hearth.WithSessions(store),
//	    hearth.WithDatabase(pool),
//	    hearth.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	    hearth.WithHandlers(handlers.NewEntries(views, repo)),
//	)
//	err := app.Run(":8080", hearth.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// ContextValue retrieves a typed value from the request context, or T's zero
// value when absent or of another type.
//
// Example:
//
//	type tenantKey struct{}
//	tenant := hearth.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}
