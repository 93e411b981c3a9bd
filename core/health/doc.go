// Package health provides probe handlers for routers built on web.Context
// or any other web.RequestContext.
//
//	b.Get("/health/live", handler.Endpoint(health.Liveness[*web.Context]))
//	b.Get("/health/ready", handler.Endpoint(health.Readiness[*web.Context](logger, db.PingContext, cache.Ping)))
//	b.Get("/ping", handler.Endpoint(health.NoContent[*web.Context]))
//
// Checks share the func(context.Context) error shape.
package health
