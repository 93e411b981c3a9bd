package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func captureIP(dst *string) handler.Middleware[ctx] {
	return handler.Endpoint(func(c ctx) (ctx, error) {
		if ip, ok := middleware.GetClientIP(c); ok {
			*dst = ip
		}
		c.ResponseWriter().WriteHeader(http.StatusOK)
		return c, nil
	})
}

func TestClientIPStoresAddress(t *testing.T) {
	t.Parallel()

	var captured string
	b := router.New[ctx]()
	b.Use("/", middleware.ClientIP[ctx]())
	b.Get("/", captureIP(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	w := serveWith(b, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "203.0.113.5", captured)
	assert.Empty(t, w.Header().Get("X-Client-IP"))
}

func TestClientIPHeader(t *testing.T) {
	t.Parallel()

	var captured string
	b := router.New[ctx]()
	b.Use("/", middleware.ClientIPWithConfig[ctx](middleware.ClientIPConfig{StoreInHeader: true}))
	b.Get("/", captureIP(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.3:1234"
	w := serveWith(b, req)

	assert.Equal(t, "198.51.100.3", captured)
	assert.Equal(t, "198.51.100.3", w.Header().Get("X-Client-IP"))
}

func TestClientIPValidation(t *testing.T) {
	t.Parallel()

	errBlocked := errors.New("blocked")
	reached := false

	b := router.New[ctx]()
	b.Use("/", middleware.ClientIPWithConfig[ctx](middleware.ClientIPConfig{
		ValidateFunc: func(_ web.RequestContext, ip string) error {
			if ip == "192.0.2.66" {
				return errBlocked
			}
			return nil
		},
	}))
	b.Get("/", handler.Endpoint(func(c ctx) (ctx, error) {
		reached = true
		return c, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "192.0.2.66")
	w := serveWith(b, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
}

func TestClientIPSkip(t *testing.T) {
	t.Parallel()

	var captured string
	b := router.New[ctx]()
	b.Use("/", middleware.ClientIPWithConfig[ctx](middleware.ClientIPConfig{
		Skip: func(web.RequestContext) bool { return true },
	}))
	b.Get("/", captureIP(&captured))

	serveWith(b, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, captured)
}
