// Package middleware provides continuation-passing middleware for routers
// built with core/router and served through core/web.
//
// Every middleware is generic over a context type implementing
// web.RequestContext and follows the same shape:
//
//   - a default constructor (RequestID, Logging, Metrics, Recover, ...)
//   - a WithConfig constructor taking a config struct
//   - an optional Skip hook in the config
//   - context helpers for values the middleware stores (GetRequestID)
//
// Middleware receives the context and the rest of the chain. It may work
// before calling next, after it returns, or return an error without calling
// next at all:
//
//	b := router.New[*web.Context]()
//	b.Use("/",
//		middleware.Recover[*web.Context](),
//		middleware.RequestID[*web.Context](),
//		middleware.Logging[*web.Context](),
//		middleware.Metrics[*web.Context](),
//	)
//	b.Use("/upload", middleware.BodyLimitWithSize[*web.Context](10*middleware.MB))
//
// # Request ID
//
// RequestID stores an identifier (UUID v4 by default) in the request context
// and echoes it in the X-Request-ID response header. Logging and Recover pick
// it up automatically.
//
// # Logging
//
// Logging writes one slog record per request after the chain returns, with
// method, path, route pattern, final status and duration. Errors that have
// not been rendered yet are reported with the status they will be rendered
// with.
//
// # Metrics
//
// Metrics exposes a Prometheus counter and a duration histogram labelled by
// method, route pattern and status. Unmatched requests share the pattern
// label "unmatched".
//
//	reg := prometheus.NewRegistry()
//	b.Use("/", middleware.MetricsWithConfig[*web.Context](middleware.MetricsConfig{
//		Registerer: reg,
//	}))
//
// # Recover
//
// Recover converts a panic in the rest of the chain into a 500 *handler.Error
// whose cause implements handler.PanicError.
//
// # Client IP
//
// ClientIP resolves the caller address with pkg/clientip and stores it for
// Logging and GetClientIP.
//
// # Tracing
//
// Tracing starts an OpenTelemetry server span per request, named
// "METHOD pattern" and parented on any incoming W3C trace context.
//
// # Compression
//
// Compress encodes response bodies with zstd, brotli or gzip, whichever the
// client accepts first in server preference order. It needs a context that
// implements web.WriterSwapper, which web.Context does.
//
// # Body limit and security headers
//
// BodyLimit rejects oversized request bodies with 413. SecurityHeaders sets a
// preset of response security headers before the chain runs.
package middleware
