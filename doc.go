// Package hearth is a small framework for session-backed server-rendered
// web applications: compiled html/template views, a tamper-evident cookie
// session with flash messages, a per-request database connection, and a
// response buffer that guarantees the session cookie always ships with the
// response it belongs to.
//
// # Quick Start
//
// Create an application with hearth.New(), configure it with options, and
// call Run() to start the HTTP server:
//
//	store, err := session.NewStore(session.WithSecret(os.Getenv("SESSION_SECRET")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := hearth.New(
//	    hearth.WithLogger("app", middlewares.RequestIDExtractor()),
//	    hearth.WithSessions(store),
//	    hearth.WithDatabase(pool),
//	    hearth.WithMiddleware(middlewares.Recover(), middlewares.RequestID()),
//	    hearth.WithHandlers(handlers.NewPages(views, repo)),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes. Routes can
// be named for URL reversal:
//
//	func (h *PagesHandler) Routes(r hearth.Router) {
//	    r.GET("/", h.home).Name("home")
//	    r.GET("/login", h.showLogin).Name("login")
//	    r.POST("/login", h.handleLogin)
//	}
//
//	func (h *PagesHandler) home(c hearth.Context) error {
//	    return c.Render(200, h.views.Home, data)
//	}
//
// # Request lifecycle
//
// Every request runs the same sequence: build a context (check out a pool
// connection, open the session), run the handler against an in-memory
// buffer, render any returned error into the buffer, save the session into
// the buffered headers, then flush. A handler error or render failure never
// leaks partial output, and a redirect carries its session cookie.
//
// # Sessions and identity
//
// c.Session() is never nil when sessions are configured; a missing or
// tampered cookie yields a fresh empty session. c.Authenticate(userID)
// stores the user ID; c.Identity() lazily resolves it through the
// app-configured IdentityResolver, at most once per request.
package hearth
