package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/logger"
	"github.com/dmitrymomot/thicket/core/web"
)

// Readiness runs every check with the request context and answers
// 200 "READY" when all pass. The first failing check short-circuits the
// rest and produces a 503 error for the error renderer.
//
//	b.Get("/health/ready", handler.Endpoint(health.Readiness[*web.Context](logger, db.PingContext)))
func Readiness[C web.RequestContext](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[C] {
	return func(ctx C) (C, error) {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				if log != nil {
					log.ErrorContext(ctx, "readiness check failed",
						logger.Component("health"),
						logger.Error(err),
					)
				}
				return ctx, handler.NewError(ctx, http.StatusServiceUnavailable, "", err)
			}
		}
		return ctx, writeText(ctx, http.StatusOK, "READY")
	}
}
