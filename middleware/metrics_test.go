package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func requestsTotal(t *testing.T, reg *prometheus.Registry, method, pattern, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "http_router_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == method && labels["pattern"] == pattern && labels["http_status"] == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsCountsByPattern(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	b := router.New[ctx]()
	b.Use("/", middleware.MetricsWithConfig[ctx](middleware.MetricsConfig{Registerer: reg}))
	b.Get("/users/:id", text(http.StatusOK, "ok"))
	b.Post("/users", fail(errors.New("boom")))
	h := web.Handler(b.Commit())

	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/users", nil))

	assert.Equal(t, 3.0, requestsTotal(t, reg, "GET", "/users/:id", "200"))
	assert.Equal(t, 1.0, requestsTotal(t, reg, "POST", "/users", "500"))

	// one series per label set, never per raw path
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "http_router_requests_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "http_router_request_duration_seconds"))
}

func TestMetricsSharedRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	cfg := middleware.MetricsConfig{Registerer: reg, Namespace: "app", Subsystem: "web"}

	first := router.New[ctx]()
	first.Use("/", middleware.MetricsWithConfig[ctx](cfg))
	first.Get("/a", text(http.StatusOK, "a"))

	second := router.New[ctx]()
	assert.NotPanics(t, func() {
		second.Use("/", middleware.MetricsWithConfig[ctx](cfg))
	})
	second.Get("/b", text(http.StatusOK, "b"))

	serveWith(first, httptest.NewRequest(http.MethodGet, "/a", nil))
	serveWith(second, httptest.NewRequest(http.MethodGet, "/b", nil))

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "app_web_requests_total"))
}

func TestMetricsSkip(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	b := router.New[ctx]()
	b.Use("/", middleware.MetricsWithConfig[ctx](middleware.MetricsConfig{
		Registerer: reg,
		Skip:       func(c web.RequestContext) bool { return c.Pattern() == "/metrics" },
	}))
	b.Get("/metrics", text(http.StatusOK, "ok"))

	serveWith(b, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, 0, testutil.CollectAndCount(reg, "http_router_requests_total"))
}

func TestMetricsUnmatchedPatternLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	mw := middleware.MetricsWithConfig[ctx](middleware.MetricsConfig{Registerer: reg})

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	c := web.NewContext(httptest.NewRecorder(), req, web.Route{})
	_, err := mw(c, func(c ctx) (ctx, error) { return c, nil })
	require.NoError(t, err)

	assert.Equal(t, 1.0, requestsTotal(t, reg, "GET", "unmatched", "200"))
}
