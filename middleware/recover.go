package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/logger"
	"github.com/dmitrymomot/thicket/core/web"
)

// RecoverConfig configures the panic recovery middleware.
type RecoverConfig struct {
	// Logger receives a record for every recovered panic (default: slog.Default())
	Logger *slog.Logger
	// DisableStack omits the stack trace from the log record
	DisableStack bool
}

// Recover creates a panic recovery middleware with default configuration.
func Recover[C web.RequestContext]() handler.Middleware[C] {
	return RecoverWithConfig[C](RecoverConfig{})
}

// RecoverWithConfig turns a panic in the rest of the chain into a 500
// *handler.Error whose cause is a handler.PanicError carrying the panic value
// and stack. Placed at the root, it keeps panics on the normal error path
// where the chain's own error handling can see them.
func RecoverWithConfig[C web.RequestContext](cfg RecoverConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(ctx C, next handler.HandlerFunc[C]) (out C, err error) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			perr := handler.NewPanicError(p, debug.Stack())

			attrs := []slog.Attr{
				logger.Panic(p),
				logger.Method(ctx.Request().Method),
				logger.Path(ctx.Request().URL.Path),
				logger.Pattern(ctx.Pattern()),
			}
			if id, ok := GetRequestID(ctx.Request().Context()); ok {
				attrs = append(attrs, logger.RequestID(id))
			}
			if !cfg.DisableStack {
				attrs = append(attrs, slog.String("stack", string(perr.Stack())))
			}
			cfg.Logger.LogAttrs(ctx.Request().Context(), slog.LevelError, "panic recovered", attrs...)

			out, err = ctx, handler.InternalError(ctx, perr)
		}()

		return next(ctx)
	}
}
