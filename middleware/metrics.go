package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

// unmatchedPattern labels requests that resolved to no route, so that
// arbitrary paths never become label values.
const unmatchedPattern = "unmatched"

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool
	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer
	// Namespace prefixes metric names (default: "http")
	Namespace string
	// Subsystem is inserted between namespace and name (default: "router")
	Subsystem string
	// Buckets for the duration histogram (default: prometheus.DefBuckets)
	Buckets []float64
}

// Metrics creates a metrics middleware registered on the default registry.
func Metrics[C web.RequestContext]() handler.Middleware[C] {
	return MetricsWithConfig[C](MetricsConfig{})
}

// MetricsWithConfig counts requests and observes their duration, labelled by
// method, route pattern and final status code. Collectors that already exist
// on the registerer with the same description are reused, so several
// routers can share one registry.
func MetricsWithConfig[C web.RequestContext](cfg MetricsConfig) handler.Middleware[C] {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "http"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "router"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	labels := []string{"method", "pattern", "http_status"}

	requests := registerCollector(cfg.Registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "requests_total",
			Help:      "Count of requests handled, by matched route pattern",
		},
		labels,
	))

	durations := registerCollector(cfg.Registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of request durations, by matched route pattern",
			Buckets:   cfg.Buckets,
		},
		labels,
	))

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		start := time.Now()
		out, err := next(ctx)

		pattern := ctx.Pattern()
		if pattern == "" {
			pattern = unmatchedPattern
		}
		values := []string{
			ctx.Request().Method,
			pattern,
			strconv.Itoa(web.StatusFor(ctx.ResponseWriter(), err)),
		}

		requests.WithLabelValues(values...).Inc()
		durations.WithLabelValues(values...).Observe(time.Since(start).Seconds())

		return out, err
	}
}

// registerCollector registers c, or returns the equivalent collector that is
// already registered.
func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}
