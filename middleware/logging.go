package middleware

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/logger"
	"github.com/dmitrymomot/thicket/core/web"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging creates a request logging middleware with default configuration.
func Logging[C web.RequestContext]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C web.RequestContext](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig logs one line per request once the rest of the chain has
// returned. The status is the one the request will end with, so an error that
// has not been rendered yet is reported by its status code. Server errors are
// logged at error level, client errors and slow requests at warning level.
func LoggingWithConfig[C web.RequestContext](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		start := time.Now()
		out, err := next(ctx)
		duration := time.Since(start)

		// handlers may have replaced the request
		req := ctx.Request()
		status := web.StatusFor(ctx.ResponseWriter(), err)
		requestID, _ := GetRequestID(req.Context())
		clientIP, _ := GetClientIP(req.Context())

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Event("request"),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.Pattern(ctx.Pattern()),
			logger.StatusCode(status),
			logger.Duration(duration),
			logger.RequestID(requestID),
			logger.ClientIP(clientIP),
		}
		if rs, ok := ctx.ResponseWriter().(web.ResponseState); ok {
			attrs = append(attrs, slog.Int("bytes_out", rs.Size()))
		}

		level := cfg.LogLevel
		switch {
		case status >= 500:
			level = slog.LevelError
			attrs = append(attrs, logger.Error(err))
		case status >= 400:
			level = slog.LevelWarn
		case duration > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
			attrs = append(attrs, slog.Bool("slow_request", true))
		}

		cfg.Logger.LogAttrs(req.Context(), level, "HTTP request completed", attrs...)

		return out, err
	}
}
