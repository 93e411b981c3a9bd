package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func TestRecoverConvertsPanicToError(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	mw := middleware.RecoverWithConfig[ctx](middleware.RecoverConfig{Logger: log})

	b := router.New[ctx]()
	b.Use("/", mw)
	b.Get("/panic/:id", handler.Endpoint(func(c ctx) (ctx, error) {
		panic("kaboom")
	}))
	r := b.Commit()

	req := httptest.NewRequest(http.MethodGet, "/panic/1", nil)
	m := r.Resolve(req.Method, req.URL.Path)
	c := newContext(req, m)

	out, err := m.Handler(c)
	require.Error(t, err)
	assert.Same(t, c, out)

	var herr *handler.Error[ctx]
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusInternalServerError, herr.StatusCode())

	var perr handler.PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "kaboom", perr.Value())

	assert.Contains(t, buf.String(), `msg="panic recovered"`)
	assert.Contains(t, buf.String(), "panic=kaboom")
	assert.Contains(t, buf.String(), "pattern=/panic/:id")
	assert.Contains(t, buf.String(), "stack=")
}

func TestRecoverThroughWebHandler(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.RequestID[ctx](), middleware.RecoverWithConfig[ctx](middleware.RecoverConfig{
		Logger:       log,
		DisableStack: true,
	}))
	b.Get("/panic", handler.Endpoint(func(c ctx) (ctx, error) {
		panic(errors.New("nil map"))
	}))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "nil map")
	assert.Contains(t, buf.String(), "request_id="+w.Header().Get("X-Request-ID"))
	assert.NotContains(t, buf.String(), "stack=")
}

func TestRecoverPassesThrough(t *testing.T) {
	t.Parallel()

	b := router.New[ctx]()
	b.Use("/", middleware.Recover[ctx]())
	b.Get("/ok", text(http.StatusOK, "fine"))
	b.Get("/err", fail(handler.BadRequestError[ctx](nil, "bad input")))
	h := web.Handler(b.Commit())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad input")
}
