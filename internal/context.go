package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hearthstack/hearth/pkg/db"
	"github.com/hearthstack/hearth/pkg/session"
	"github.com/hearthstack/hearth/pkg/view"
)

// SessionUserKey is the session key holding the authenticated user's ID.
const SessionUserKey = "user_id"

// Identity is the resolved authenticated user.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// IdentityResolver loads the identity behind a stored user ID. It runs at
// most once per request, on first Identity() call. Returning an error leaves
// the request anonymous; it does not fail the request.
type IdentityResolver func(ctx context.Context, q db.Querier, userID string) (*Identity, error)

// Context carries one request through the framework: the buffered response,
// a checked-out database connection, the session, and the lazily resolved
// identity. It implements context.Context by delegating to the request.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the buffered response writer. Nothing written here
	// reaches the client until the dispatcher flushes it.
	Response() http.ResponseWriter

	// Param returns the URL parameter value by name, or "".
	Param(name string) string

	// Query returns the query parameter value by name, or "".
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, def string) string

	// Form returns the form value by name, parsing the form on first use.
	Form(name string) string

	// Session returns the request's session. Never nil when the app has a
	// session store configured; a tampered or missing cookie yields a fresh
	// empty session.
	Session() *session.Session

	// Identity returns the authenticated user, resolving it on first call
	// from the session's stored user ID. Nil when anonymous or resolution
	// failed.
	Identity() *Identity

	// IsAuthenticated reports whether Identity() is non-nil.
	IsAuthenticated() bool

	// Authenticate stores the user ID in the session.
	Authenticate(userID string)

	// Logout clears the session.
	Logout()

	// DB returns the connection checked out for this request.
	DB() db.Querier

	// Collection returns a query helper for table, scoped to this request's
	// connection.
	Collection(table string) *db.Collection

	// Render executes a compiled template into the buffered response with
	// the given status code. On render failure nothing is written.
	Render(code int, tmpl *view.Template, data any) error

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect writes a redirect to url with the given status code.
	Redirect(code int, url string) error

	// Reverse builds the URL for a named route.
	Reverse(name string, params ...string) (string, error)

	// Error builds an HTTPError without writing anything; return it from
	// the handler to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Header returns a request header value.
	Header(name string) string

	// SetHeader sets a buffered response header.
	SetHeader(name, value string)

	// Cookie returns a plain request cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain response cookie.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie expires a cookie.
	DeleteCookie(name string)

	// Set stores a value in the request context.
	Set(key, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	// Logger returns the request logger.
	Logger() *slog.Logger

	// LogDebug logs at debug level with the request context.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs at info level with the request context.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs at warn level with the request context.
	LogWarn(msg string, attrs ...any)

	// LogError logs at error level with the request context.
	LogError(msg string, attrs ...any)
}

// requestContext implements Context.
type requestContext struct {
	app      *App
	request  *http.Request
	buffer   *ResponseBuffer
	conn     releasableConn
	sess     *session.Session
	identity *Identity
	resolved bool
	closed   bool
}

// releasableConn is the slice of *pgxpool.Conn the context needs. Tests
// substitute fakes.
type releasableConn interface {
	db.Querier
	Release()
}

// newContext assembles the per-request context. A connection checkout
// failure aborts with ErrContextCreation; session problems never do. A
// tampered session cookie is logged and replaced by a fresh session.
func (a *App) newContext(buf *ResponseBuffer, r *http.Request) (*requestContext, error) {
	c := &requestContext{app: a, request: r, buffer: buf}

	if a.acquireConn != nil {
		conn, err := a.acquireConn(r.Context())
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "service unavailable",
				WithError(ErrContextCreation), WithDetail(err.Error()))
		}
		c.conn = conn
	}

	if a.sessions != nil {
		sess, err := a.sessions.Open(r)
		if err != nil {
			a.logger.WarnContext(r.Context(), "session rejected, starting fresh",
				slog.String("error", err.Error()))
		}
		c.sess = sess
	}

	return c, nil
}

// Close releases the request's database connection. Called exactly once by
// the dispatcher on every exit path.
func (c *requestContext) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.conn != nil {
		c.conn.Release()
		c.conn = nil
	}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.buffer }

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, def string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Session() *session.Session {
	return c.sess
}

func (c *requestContext) Identity() *Identity {
	if c.resolved {
		return c.identity
	}
	c.resolved = true

	if c.sess == nil || c.app.identityResolver == nil {
		return nil
	}
	userID, ok := session.Value[string](c.sess, SessionUserKey)
	if !ok || userID == "" {
		return nil
	}

	ident, err := c.app.identityResolver(c.request.Context(), c.DB(), userID)
	if err != nil {
		c.LogWarn("identity resolution failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil
	}
	c.identity = ident
	return c.identity
}

func (c *requestContext) IsAuthenticated() bool {
	return c.Identity() != nil
}

func (c *requestContext) Authenticate(userID string) {
	if c.sess == nil {
		return
	}
	c.sess.Set(SessionUserKey, userID)
	// Force re-resolution on next Identity() call.
	c.resolved = false
	c.identity = nil
}

func (c *requestContext) Logout() {
	if c.sess == nil {
		return
	}
	c.sess.Clear()
	c.resolved = true
	c.identity = nil
}

func (c *requestContext) DB() db.Querier {
	return c.conn
}

func (c *requestContext) Collection(table string) *db.Collection {
	return db.NewCollection(c.conn, table)
}

func (c *requestContext) Render(code int, tmpl *view.Template, data any) error {
	c.buffer.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.buffer.WriteHeader(code)
	return tmpl.Execute(c.buffer, data)
}

func (c *requestContext) JSON(code int, v any) error {
	c.buffer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.buffer.WriteHeader(code)
	return json.NewEncoder(c.buffer).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.buffer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.buffer.WriteHeader(code)
	_, err := c.buffer.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.buffer.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	c.buffer.Header().Set("Location", url)
	c.buffer.WriteHeader(code)
	return nil
}

func (c *requestContext) Reverse(name string, params ...string) (string, error) {
	return c.app.Reverse(name, params...)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.buffer.Header().Set(name, value)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.app.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.app.cookies.Set(c.buffer, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.app.cookies.Delete(c.buffer, name)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.request.Context(), msg, attrs...)
}
