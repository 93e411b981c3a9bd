package router

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
)

// Option configures a Builder during creation.
type Option[C any] func(*Builder[C])

// WithLogger sets the logger used for registration and commit diagnostics.
func WithLogger[C any](l *slog.Logger) Option[C] {
	return func(b *Builder[C]) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithNotFound replaces the handler returned for unmatched paths.
// It is captured once at commit and shared by every non-leaf node.
func WithNotFound[C any](h handler.HandlerFunc[C]) Option[C] {
	return func(b *Builder[C]) {
		if h != nil {
			b.notFound = h
		}
	}
}

// WithStrictMode makes "/a" and "/a/" distinct routes.
func WithStrictMode[C any](strict bool) Option[C] {
	return func(b *Builder[C]) {
		b.strict = strict
	}
}

// WithFallbackMethod sets the trie used for methods without one of their own
// (HEAD, CONNECT, TRACE, custom verbs). The default is GET. An empty method
// disables the fallback: such requests resolve to a 405 handler.
func WithFallbackMethod[C any](method string) Option[C] {
	method = strings.ToUpper(method)
	if _, ok := methodMap[method]; !ok && method != "" {
		panic(fmt.Errorf("%w: fallback %s", ErrInvalidMethod, method))
	}
	return func(b *Builder[C]) {
		b.fallback = method
	}
}

// WithFastPath toggles the literal-path lookup table built at commit.
func WithFastPath[C any](enabled bool) Option[C] {
	return func(b *Builder[C]) {
		b.fastPath = enabled
	}
}
