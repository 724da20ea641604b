package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routesFunc adapts a function to the Handler interface for tests.
type routesFunc func(r Router)

func (f routesFunc) Routes(r Router) { f(r) }

func TestReverse(t *testing.T) {
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/", func(c Context) error { return c.NoContent(200) }).Name("home")
		r.GET("/entries/{id}", func(c Context) error { return c.NoContent(200) }).Name("entry")
		r.Route("/admin", func(r Router) {
			r.GET("/users/{id}/posts/{post}", func(c Context) error { return c.NoContent(200) }).Name("admin.post")
		})
	})))

	t.Run("static", func(t *testing.T) {
		url, err := app.Reverse("home")
		require.NoError(t, err)
		assert.Equal(t, "/", url)
	})

	t.Run("one param", func(t *testing.T) {
		url, err := app.Reverse("entry", "42")
		require.NoError(t, err)
		assert.Equal(t, "/entries/42", url)
	})

	t.Run("nested group prefix", func(t *testing.T) {
		url, err := app.Reverse("admin.post", "7", "9")
		require.NoError(t, err)
		assert.Equal(t, "/admin/users/7/posts/9", url)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := app.Reverse("missing")
		require.Error(t, err)
		assert.True(t, IsProgrammerError(err))
	})

	t.Run("too few params", func(t *testing.T) {
		_, err := app.Reverse("entry")
		require.Error(t, err)
		assert.True(t, IsProgrammerError(err))
	})

	t.Run("too many params", func(t *testing.T) {
		_, err := app.Reverse("home", "extra")
		require.Error(t, err)
		assert.True(t, IsProgrammerError(err))
	})
}

func TestRouterDispatchesMethods(t *testing.T) {
	var got string
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/x", func(c Context) error { got = "GET"; return c.NoContent(200) })
		r.POST("/x", func(c Context) error { got = "POST"; return c.NoContent(200) })
		r.DELETE("/x", func(c Context) error { got = "DELETE"; return c.NoContent(200) })
	})))

	for _, method := range []string{"GET", "POST", "DELETE"} {
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(method, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, method, got)
	}
}

func TestRouteMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(c Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	app := New(
		WithMiddleware(tag("global")),
		WithHandlers(routesFunc(func(r Router) {
			r.Use(tag("router"))
			r.GET("/", func(c Context) error {
				order = append(order, "handler")
				return c.NoContent(200)
			}, tag("route"))
		})),
	)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"global", "router", "route", "handler"}, order)
}

func TestRouterGroupSharesNoPrefix(t *testing.T) {
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.Group(func(r Router) {
			r.GET("/grouped", func(c Context) error { return c.String(200, "ok") }).Name("grouped")
		})
	})))

	url, err := app.Reverse("grouped")
	require.NoError(t, err)
	assert.Equal(t, "/grouped", url)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/grouped", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
