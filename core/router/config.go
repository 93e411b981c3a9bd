package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds router configuration with environment variable support.
type Config struct {
	// "/a" and "/a/" are distinct routes when set
	StrictMode bool `env:"ROUTER_STRICT_MODE" envDefault:"false"`

	// Trie used for methods without one of their own
	FallbackMethod string `env:"ROUTER_FALLBACK_METHOD" envDefault:"GET"`

	// Answer unknown methods with 405 instead of falling back
	DisableFallback bool `env:"ROUTER_DISABLE_FALLBACK" envDefault:"false"`

	// Literal-path lookup table built at commit
	FastPath bool `env:"ROUTER_FAST_PATH" envDefault:"true"`
}

// DefaultConfig returns a Config with the same values New uses.
func DefaultConfig() Config {
	return Config{
		FallbackMethod: http.MethodGet,
		FastPath:       true,
	}
}

// NewFromConfig creates a Builder from configuration.
// Additional options are applied after the config and can override it.
func NewFromConfig[C any](cfg Config, opts ...Option[C]) (*Builder[C], error) {
	fallback := strings.ToUpper(cfg.FallbackMethod)
	if cfg.DisableFallback {
		fallback = ""
	} else if _, ok := methodMap[fallback]; !ok {
		return nil, fmt.Errorf("%w: fallback %q", ErrInvalidMethod, cfg.FallbackMethod)
	}

	configOpts := []Option[C]{
		WithStrictMode[C](cfg.StrictMode),
		WithFallbackMethod[C](fallback),
		WithFastPath[C](cfg.FastPath),
	}

	return New(append(configOpts, opts...)...), nil
}
