package middleware

import (
	"maps"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields are not sent.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool

	ContentTypeOptions        string // X-Content-Type-Options
	FrameOptions              string // X-Frame-Options
	StrictTransportSecurity   string // Strict-Transport-Security
	ContentSecurityPolicy     string // Content-Security-Policy
	ReferrerPolicy            string // Referrer-Policy
	PermissionsPolicy         string // Permissions-Policy
	CrossOriginOpenerPolicy   string // Cross-Origin-Opener-Policy
	CrossOriginResourcePolicy string // Cross-Origin-Resource-Policy

	// CustomHeaders are set after, and may override, the headers above
	CustomHeaders map[string]string

	// IsDevelopment drops Strict-Transport-Security
	IsDevelopment bool
}

var (
	// StrictSecurity suits JSON APIs that never render HTML.
	StrictSecurity = SecurityHeadersConfig{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "DENY",
		StrictTransportSecurity:   "max-age=63072000; includeSubDomains; preload",
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:            "no-referrer",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
	}

	// BalancedSecurity is the default.
	BalancedSecurity = SecurityHeadersConfig{
		ContentTypeOptions:        "nosniff",
		FrameOptions:              "SAMEORIGIN",
		StrictTransportSecurity:   "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:     "default-src 'self'; img-src 'self' data: https:",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		PermissionsPolicy:         "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy:   "same-origin-allow-popups",
		CrossOriginResourcePolicy: "cross-origin",
	}
)

// SecurityHeaders creates a security headers middleware with BalancedSecurity.
func SecurityHeaders[C web.RequestContext]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](BalancedSecurity)
}

// SecurityHeadersStrict creates a security headers middleware with StrictSecurity.
func SecurityHeadersStrict[C web.RequestContext]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](StrictSecurity)
}

// SecurityHeadersWithConfig sets the configured headers before the rest of
// the chain runs, so they are present on error responses too.
func SecurityHeadersWithConfig[C web.RequestContext](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":       cfg.ContentTypeOptions,
		"X-Frame-Options":              cfg.FrameOptions,
		"Strict-Transport-Security":    cfg.StrictTransportSecurity,
		"Content-Security-Policy":      cfg.ContentSecurityPolicy,
		"Referrer-Policy":              cfg.ReferrerPolicy,
		"Permissions-Policy":           cfg.PermissionsPolicy,
		"Cross-Origin-Opener-Policy":   cfg.CrossOriginOpenerPolicy,
		"Cross-Origin-Resource-Policy": cfg.CrossOriginResourcePolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}

		h := ctx.ResponseWriter().Header()
		for name, value := range headers {
			h.Set(name, value)
		}
		return next(ctx)
	}
}
