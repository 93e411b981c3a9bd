package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/health"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func newRouter(cfg Config, log *slog.Logger, reg *prometheus.Registry) (*router.Router[ctx], error) {
	b, err := router.NewFromConfig(cfg.Router, router.WithLogger[ctx](log))
	if err != nil {
		return nil, err
	}

	b.Use("/",
		middleware.RequestID[ctx](),
		middleware.ClientIP[ctx](),
		middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
			Logger:               log,
			SlowRequestThreshold: cfg.SlowRequest,
		}),
		middleware.MetricsWithConfig[ctx](middleware.MetricsConfig{Registerer: reg}),
		middleware.RecoverWithConfig[ctx](middleware.RecoverConfig{Logger: log}),
		middleware.Tracing[ctx](),
		middleware.SecurityHeaders[ctx](),
		middleware.Compress[ctx](),
	)

	b.Get("/health/live", handler.Endpoint(health.Liveness[ctx]))
	b.Get("/health/ready", handler.Endpoint(health.Readiness[ctx](log)))
	b.Get("/ping", handler.Endpoint(health.NoContent[ctx]))
	b.Get("/metrics", web.HTTPHandler[ctx](promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	b.Get("/static/*", handler.Endpoint(staticFile))

	api := router.New(router.WithLogger[ctx](log))
	api.Use("/", middleware.BodyLimitWithSize[ctx](cfg.MaxBodySize))
	api.Get("/users/:id", handler.Endpoint(getUser))
	api.Get("/users/:id/posts/:post", handler.Endpoint(getPost))
	api.Post("/users", handler.Endpoint(createUser))
	b.Mount("/api/v1", api)

	return b.Commit(), nil
}
