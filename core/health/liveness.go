package health

import (
	"net/http"

	"github.com/dmitrymomot/thicket/core/web"
)

// Liveness reports that the process is running. It always answers
// 200 "ALIVE" and checks no dependencies.
//
//	b.Get("/health/live", handler.Endpoint(health.Liveness[*web.Context]))
func Liveness[C web.RequestContext](ctx C) (C, error) {
	return ctx, writeText(ctx, http.StatusOK, "ALIVE")
}

// NoContent answers 204 with no body for high-frequency probes.
func NoContent[C web.RequestContext](ctx C) (C, error) {
	ctx.ResponseWriter().WriteHeader(http.StatusNoContent)
	return ctx, nil
}

func writeText[C web.RequestContext](ctx C, status int, body string) error {
	w := ctx.ResponseWriter()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(body))
	return err
}
