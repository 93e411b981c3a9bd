package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func TestSecurityHeadersDefault(t *testing.T) {
	t.Parallel()

	b := router.New[ctx]()
	b.Use("/", middleware.SecurityHeaders[ctx]())
	b.Get("/", text(http.StatusOK, "ok"))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "cross-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestSecurityHeadersOnErrorResponses(t *testing.T) {
	t.Parallel()

	b := router.New[ctx]()
	b.Use("/", middleware.SecurityHeadersStrict[ctx]())
	b.Get("/fail", fail(errors.New("boom")))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

func TestSecurityHeadersCustomAndDevelopment(t *testing.T) {
	t.Parallel()

	cfg := middleware.BalancedSecurity
	cfg.IsDevelopment = true
	cfg.PermissionsPolicy = ""
	cfg.CustomHeaders = map[string]string{
		"X-Frame-Options": "DENY",
		"X-Powered-By":    "thicket",
	}

	b := router.New[ctx]()
	b.Use("/", middleware.SecurityHeadersWithConfig[ctx](cfg))
	b.Get("/", text(http.StatusOK, "ok"))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Permissions-Policy"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "thicket", w.Header().Get("X-Powered-By"))
}

func TestSecurityHeadersSkip(t *testing.T) {
	t.Parallel()

	b := router.New[ctx]()
	b.Use("/", middleware.SecurityHeadersWithConfig[ctx](middleware.SecurityHeadersConfig{
		ContentTypeOptions: "nosniff",
		Skip:               func(c web.RequestContext) bool { return true },
	}))
	b.Get("/", text(http.StatusOK, "ok"))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("X-Content-Type-Options"))
}
