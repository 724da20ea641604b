package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthstack/hearth/pkg/db"
)

// fakeConn satisfies releasableConn without a database.
type fakeConn struct {
	released int
}

func (f *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeConn) Release() {
	f.released++
}

func TestContextRequestAccessors(t *testing.T) {
	var param, query, def, form string
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.POST("/entries/{id}", func(c Context) error {
			param = c.Param("id")
			query = c.Query("page")
			def = c.QueryDefault("limit", "50")
			form = c.Form("body")
			return c.NoContent(http.StatusOK)
		})
	})))

	req := httptest.NewRequest("POST", "/entries/42?page=3", strings.NewReader("body=hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	serve(app, req)

	assert.Equal(t, "42", param)
	assert.Equal(t, "3", query)
	assert.Equal(t, "50", def)
	assert.Equal(t, "hello", form)
}

func TestContextResponses(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		app := New(WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				return c.JSON(http.StatusCreated, map[string]string{"id": "1"})
			})
		})))

		rec := serve(app, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
	})

	t.Run("String", func(t *testing.T) {
		app := New(WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				return c.String(http.StatusTeapot, "short and stout")
			})
		})))

		rec := serve(app, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("NoContent", func(t *testing.T) {
		app := New(WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				return c.NoContent(http.StatusNoContent)
			})
		})))

		rec := serve(app, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, rec.Body.Len())
	})
}

func TestContextIdentityLazyAndCached(t *testing.T) {
	calls := 0
	resolver := func(ctx context.Context, q db.Querier, userID string) (*Identity, error) {
		calls++
		return &Identity{ID: userID, Name: "Alice"}, nil
	}

	store := newTestStore(t)
	app := New(
		WithSessions(store),
		WithIdentityResolver(resolver),
		WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				c.Authenticate("u7")

				first := c.Identity()
				second := c.Identity()
				require.NotNil(t, first)
				assert.Same(t, first, second)
				assert.True(t, c.IsAuthenticated())
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 1, calls, "resolver must run once per request")
}

func TestContextIdentityAnonymous(t *testing.T) {
	calls := 0
	store := newTestStore(t)
	app := New(
		WithSessions(store),
		WithIdentityResolver(func(ctx context.Context, q db.Querier, userID string) (*Identity, error) {
			calls++
			return nil, nil
		}),
		WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				assert.Nil(t, c.Identity())
				assert.False(t, c.IsAuthenticated())
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Zero(t, calls, "resolver must not run without a stored user ID")
}

func TestContextIdentityResolutionFailureIsNotFatal(t *testing.T) {
	store := newTestStore(t)
	app := New(
		WithSessions(store),
		WithIdentityResolver(func(ctx context.Context, q db.Querier, userID string) (*Identity, error) {
			return nil, errors.New("db gone")
		}),
		WithHandlers(routesFunc(func(r Router) {
			r.GET("/", func(c Context) error {
				c.Authenticate("u7")
				assert.Nil(t, c.Identity())
				return c.String(http.StatusOK, "still served")
			})
		})),
	)

	rec := serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "still served", rec.Body.String())
}

func TestContextLogout(t *testing.T) {
	store := newTestStore(t)
	app := New(
		WithSessions(store),
		WithIdentityResolver(func(ctx context.Context, q db.Querier, userID string) (*Identity, error) {
			return &Identity{ID: userID}, nil
		}),
		WithHandlers(routesFunc(func(r Router) {
			r.POST("/logout", func(c Context) error {
				c.Authenticate("u7")
				require.True(t, c.IsAuthenticated())

				c.Logout()
				assert.False(t, c.IsAuthenticated())
				_, ok := c.Session().Get(SessionUserKey)
				assert.False(t, ok)
				return c.Redirect(http.StatusSeeOther, "/")
			})
		})),
	)

	rec := serve(app, httptest.NewRequest("POST", "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestContextValuePropagation(t *testing.T) {
	type ctxKey struct{}

	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/", func(c Context) error {
			c.Set(ctxKey{}, "stored")
			assert.Equal(t, "stored", c.Get(ctxKey{}))
			assert.Equal(t, "stored", c.Value(ctxKey{}))
			return c.NoContent(http.StatusOK)
		})
	})))

	serve(app, httptest.NewRequest("GET", "/", nil))
}

func TestContextCloseReleasesOnce(t *testing.T) {
	fake := &fakeConn{}
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/", func(c Context) error { return c.NoContent(http.StatusOK) })
	})))
	app.acquireConn = func(ctx context.Context) (releasableConn, error) {
		return fake, nil
	}

	serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 1, fake.released)
}

func TestContextCloseReleasesOnPanic(t *testing.T) {
	fake := &fakeConn{}
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/", func(c Context) error { panic("boom") })
	})))
	app.acquireConn = func(ctx context.Context) (releasableConn, error) {
		return fake, nil
	}

	rec := serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, fake.released)
}

func TestContextCreationFailureAnswersPlain500(t *testing.T) {
	handlerRan := false
	app := New(WithHandlers(routesFunc(func(r Router) {
		r.GET("/", func(c Context) error {
			handlerRan = true
			return c.NoContent(http.StatusOK)
		})
	})))
	app.acquireConn = func(ctx context.Context) (releasableConn, error) {
		return nil, errors.New("pool exhausted")
	}

	rec := serve(app, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, handlerRan)
}
