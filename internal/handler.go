package internal

// Handler declares routes on a router.
//
// Example:
//
//	type EntriesHandler struct {
//	    repo *repository.Repo
//	}
//
//	func (h *EntriesHandler) Routes(r hearth.Router) {
//	    r.GET("/", h.list).Name("home")
//	    r.POST("/sign", h.sign)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers. Returning a non-nil error
// hands control to the app's error handler; the buffered response written so
// far is discarded first.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns. All
// middleware in a request runs against the same Context, so session and
// database state stay consistent through the chain.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers. It writes into the
// same response buffer, so a failure here can still be replaced before
// anything reaches the client.
type ErrorHandler func(Context, error) error
