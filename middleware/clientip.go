package middleware

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/pkg/clientip"
)

// clientIPContextKey is used as a key for storing client IP in request context.
type clientIPContextKey struct{}

// ClientIPConfig configures the client IP extraction middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool
	// HeaderName is the response header that echoes the IP (default: "X-Client-IP")
	HeaderName string
	// StoreInHeader echoes the IP in HeaderName
	StoreInHeader bool
	// ValidateFunc rejects a request with 403 when it returns an error
	ValidateFunc func(ctx web.RequestContext, ip string) error
}

// ClientIP stores the client IP in the request context.
func ClientIP[C web.RequestContext]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

// ClientIPWithConfig resolves the client IP with clientip.GetIP and stores it
// in the request context, where Logging and GetClientIP find it.
func ClientIPWithConfig[C web.RequestContext](cfg ClientIPConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		ip := clientip.GetIP(ctx.Request())
		ctx.SetValue(clientIPContextKey{}, ip)

		if cfg.ValidateFunc != nil {
			if err := cfg.ValidateFunc(ctx, ip); err != nil {
				return ctx, handler.NewError(ctx, http.StatusForbidden, "", err)
			}
		}

		if cfg.StoreInHeader {
			ctx.ResponseWriter().Header().Set(cfg.HeaderName, ip)
		}

		return next(ctx)
	}
}

// GetClientIP retrieves the client IP stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
