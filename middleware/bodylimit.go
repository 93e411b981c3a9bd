package middleware

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

// Common size constants for convenience
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

// ErrBodyTooLarge is the cause carried by the 413 errors BodyLimit returns.
var ErrBodyTooLarge = errors.New("request body too large")

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit overrides MaxSize per media type
	// Example: {"application/json": 1 * MB, "multipart/form-data": 10 * MB}
	ContentTypeLimit map[string]int64
}

// BodyLimit creates a body limit middleware with the default 4MB limit.
func BodyLimit[C web.RequestContext]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

// BodyLimitWithSize creates a body limit middleware with a specified size limit.
func BodyLimitWithSize[C web.RequestContext](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose declared Content-Length exceeds
// the limit before the rest of the chain runs, and caps the body reader for
// requests that do not declare one. A read past the limit that surfaces as
// the chain's error is turned into a 413 as well.
func BodyLimitWithConfig[C web.RequestContext](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		req := ctx.Request()

		maxSize := cfg.MaxSize
		if cfg.ContentTypeLimit != nil {
			if mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type")); err == nil {
				if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
					maxSize = limit
				}
			}
		}

		if req.ContentLength > maxSize {
			return ctx, tooLarge(ctx, req.ContentLength, maxSize)
		}

		if req.Body != nil && req.Body != http.NoBody {
			req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, maxSize)
		}

		out, err := next(ctx)

		var mbe *http.MaxBytesError
		if err != nil && errors.As(err, &mbe) {
			var sc interface{ StatusCode() int }
			if !errors.As(err, &sc) {
				return out, tooLarge(ctx, 0, maxSize)
			}
		}
		return out, err
	}
}

func tooLarge[C any](ctx C, size, maxSize int64) error {
	msg := fmt.Sprintf("Request body too large. Maximum allowed: %s", formatBytes(maxSize))
	if size > 0 {
		msg = fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
			formatBytes(size), formatBytes(maxSize))
	}
	return handler.NewError(ctx, http.StatusRequestEntityTooLarge, msg, ErrBodyTooLarge)
}

// formatBytes formats bytes into a human-readable string
func formatBytes(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
