package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthstack/hearth/internal"
	"github.com/hearthstack/hearth/middlewares"
)

type routesFunc func(r internal.Router)

func (f routesFunc) Routes(r internal.Router) { f(r) }

func serve(app *internal.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func TestRecoverConvertsPanicToError(t *testing.T) {
	var captured error
	app := internal.New(
		internal.WithMiddleware(middlewares.Recover()),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			captured = err
			return c.String(http.StatusInternalServerError, "handled")
		}),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				panic("kaboom")
			})
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "handled", rec.Body.String())

	require.True(t, middlewares.IsPanicError(captured))
	pe, ok := middlewares.AsPanicError(captured)
	require.True(t, ok)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestRecoverStackDisabled(t *testing.T) {
	var captured error
	app := internal.New(
		internal.WithMiddleware(middlewares.Recover(middlewares.WithRecoverDisablePrintStack())),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			captured = err
			return c.NoContent(http.StatusInternalServerError)
		}),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { panic("x") })
		})),
	)

	serve(app, httptest.NewRequest("GET", "/", nil))

	pe, ok := middlewares.AsPanicError(captured)
	require.True(t, ok)
	assert.Nil(t, pe.Stack)
}

func TestRequestIDGenerated(t *testing.T) {
	var inContext string
	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				inContext = middlewares.GetRequestID(c)
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/", nil))

	header := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, header)
	assert.Equal(t, header, inContext)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}$`), header)
}

func TestRequestIDPreservesUpstream(t *testing.T) {
	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
		})),
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Correlation-ID", "upstream-7")
	rec := serve(app, req)

	assert.Equal(t, "upstream-7", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDCustomGenerator(t *testing.T) {
	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "fixed", rec.Header().Get("X-Trace"))
}

func TestLoggingPassesErrorThrough(t *testing.T) {
	sentinel := errors.New("handler failed")
	var seen error
	app := internal.New(
		internal.WithMiddleware(middlewares.Logging()),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			seen = err
			return c.NoContent(http.StatusInternalServerError)
		}),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return sentinel })
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.ErrorIs(t, seen, sentinel)
}

func TestLoggingSkipPaths(t *testing.T) {
	app := internal.New(
		internal.WithMiddleware(middlewares.Logging(middlewares.WithLoggingSkipPaths("/health/live"))),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/health/live", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
