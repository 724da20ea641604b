package internal

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is the interface handlers use to declare routes. Registration
// methods return a *Route so routes can be named for URL reversal.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware) *Route

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware) *Route

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware) *Route

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware) *Route

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware) *Route

	// Route creates a route group sharing a pattern prefix.
	Route(pattern string, fn func(r Router))

	// Group creates an inline route group with no shared prefix.
	Group(fn func(r Router))

	// Use appends middleware applied to routes registered after the call.
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler at the given pattern.
	Mount(pattern string, h http.Handler)
}

// Route is a registered route. Name makes it reversible.
type Route struct {
	app     *App
	pattern string
}

// Name registers the route under name for Reverse. Re-registering a name
// overwrites the previous pattern.
func (rt *Route) Name(name string) *Route {
	if name != "" {
		rt.app.routeNames[name] = rt.pattern
	}
	return rt
}

// routerAdapter maps the Router interface onto chi, dispatching every route
// through the app so each request gets one buffered context.
type routerAdapter struct {
	router chi.Router
	app    *App
	prefix string
	mws    []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(r.router.Get, path, h, mw)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(r.router.Post, path, h, mw)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(r.router.Put, path, h, mw)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(r.router.Patch, path, h, mw)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) *Route {
	return r.handle(r.router.Delete, path, h, mw)
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{
			router: cr,
			app:    r.app,
			prefix: joinPattern(r.prefix, pattern),
			mws:    slices.Clone(r.mws),
		})
	})
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{
			router: cr,
			app:    r.app,
			prefix: r.prefix,
			mws:    slices.Clone(r.mws),
		})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	r.mws = append(r.mws, mw...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) handle(register func(string, http.HandlerFunc), path string, h HandlerFunc, mw []Middleware) *Route {
	chain := make([]Middleware, 0, len(r.mws)+len(mw))
	chain = append(chain, r.mws...)
	chain = append(chain, mw...)

	register(path, r.app.dispatchFunc(h, chain))
	return &Route{app: r.app, pattern: joinPattern(r.prefix, path)}
}

func joinPattern(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Reverse builds the URL for a named route, substituting params for the
// pattern's placeholders in order. Unknown names and arity mismatches are
// ProgrammerErrors, not panics, so a bad reversal fails one request instead
// of the process.
func (a *App) Reverse(name string, params ...string) (string, error) {
	pattern, ok := a.routeNames[name]
	if !ok {
		return "", NewProgrammerError("router.Reverse", "no route named %q", name)
	}

	var sb strings.Builder
	idx := 0
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", NewProgrammerError("router.Reverse", "malformed pattern %q for route %q", pattern, name)
		}
		sb.WriteString(rest[:open])
		if idx >= len(params) {
			return "", NewProgrammerError("router.Reverse", "route %q needs more than %d params", name, len(params))
		}
		sb.WriteString(params[idx])
		idx++
		rest = rest[open+closing+1:]
	}

	if idx != len(params) {
		return "", NewProgrammerError("router.Reverse", "route %q takes %d params, got %d", name, idx, len(params))
	}
	return sb.String(), nil
}
