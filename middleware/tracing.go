package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

const tracerName = "github.com/dmitrymomot/thicket/middleware"

// TracingConfig configures the OpenTelemetry tracing middleware.
type TracingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool
	// TracerProvider creates the tracer (default: otel.GetTracerProvider())
	TracerProvider trace.TracerProvider
	// Propagator extracts the remote parent from request headers
	// (default: otel.GetTextMapPropagator())
	Propagator propagation.TextMapPropagator
	// SpanName names the server span (default: "METHOD pattern")
	SpanName func(ctx web.RequestContext) string
}

// Tracing starts a server span per request using the global provider.
func Tracing[C web.RequestContext]() handler.Middleware[C] {
	return TracingWithConfig[C](TracingConfig{})
}

// TracingWithConfig wraps the rest of the chain in a server span named after
// the route pattern, so paths with different parameter values share a name.
// The span context reaches downstream handlers through the request when the
// context implements web.RequestSwapper. Server errors mark the span failed.
func TracingWithConfig[C web.RequestContext](cfg TracingConfig) handler.Middleware[C] {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	if cfg.SpanName == nil {
		cfg.SpanName = func(ctx web.RequestContext) string {
			pattern := ctx.Pattern()
			if pattern == "" {
				pattern = unmatchedPattern
			}
			return ctx.Request().Method + " " + pattern
		}
	}

	tracer := cfg.TracerProvider.Tracer(tracerName)

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		req := ctx.Request()
		parent := cfg.Propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		spanCtx, span := tracer.Start(parent, cfg.SpanName(ctx),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
				attribute.String("http.route", ctx.Pattern()),
			),
		)
		defer span.End()

		if rs, ok := any(ctx).(web.RequestSwapper); ok {
			rs.SetRequest(req.WithContext(spanCtx))
		}

		out, err := next(ctx)

		status := web.StatusFor(ctx.ResponseWriter(), err)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		return out, err
	}
}
