package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
)

type ctx = *web.Context

// serveWith commits b and serves a single request through the web adapter.
func serveWith(b *router.Builder[ctx], req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	web.Handler(b.Commit()).ServeHTTP(w, req)
	return w
}

func text(status int, body string) handler.Middleware[ctx] {
	return handler.Endpoint(func(c ctx) (ctx, error) {
		c.ResponseWriter().WriteHeader(status)
		_, err := io.WriteString(c.ResponseWriter(), body)
		return c, err
	})
}

func fail(err error) handler.Middleware[ctx] {
	return handler.Endpoint(func(c ctx) (ctx, error) {
		return c, err
	})
}

func newContext(req *http.Request, m router.Match[ctx]) ctx {
	return web.NewContext(httptest.NewRecorder(), req, web.Route{
		Method:  m.Method,
		Pattern: m.Pattern,
		Params:  m.Params,
		Found:   m.Found,
	})
}
