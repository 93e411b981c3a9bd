package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/logger"
	"github.com/dmitrymomot/thicket/core/router"
)

// Option configures the http.Handler built by NewHandler.
type Option[C RequestContext] func(*server[C])

// WithErrorRenderer replaces DefaultErrorRenderer.
func WithErrorRenderer[C RequestContext](fn ErrorRenderer[C]) Option[C] {
	return func(s *server[C]) {
		if fn != nil {
			s.renderError = fn
		}
	}
}

// WithLogger sets the logger used for panics that cannot be rendered.
func WithLogger[C RequestContext](l *slog.Logger) Option[C] {
	return func(s *server[C]) {
		if l != nil {
			s.logger = l
		}
	}
}

type server[C RequestContext] struct {
	router      *router.Router[C]
	newContext  ContextFactory[C]
	renderError ErrorRenderer[C]
	logger      *slog.Logger
}

// NewHandler exposes a committed router as an http.Handler. Each request is
// resolved on the raw path, wrapped in a context built by factory and run
// through the matched chain. A returned error is handed to the ErrorRenderer.
// Panics are recovered and rendered as 500 unless the response was already
// written, in which case they are only logged.
func NewHandler[C RequestContext](rt *router.Router[C], factory ContextFactory[C], opts ...Option[C]) http.Handler {
	if rt == nil {
		panic(router.ErrNilRouter)
	}
	if factory == nil {
		panic(ErrNoContextFactory)
	}

	s := &server[C]{
		router:      rt,
		newContext:  factory,
		renderError: DefaultErrorRenderer[C],
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler is NewHandler with the default Context.
func Handler(rt *router.Router[*Context], opts ...Option[*Context]) http.Handler {
	return NewHandler(rt, NewContext, opts...)
}

func (s *server[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	// RawPath keeps escaped slashes inside a single segment
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}

	m := s.router.Resolve(r.Method, path)
	if r.URL.RawPath != "" {
		m.Params = unescapeParams(m.Params)
	}
	ctx := s.newContext(ww, r, Route{
		Method:  m.Method,
		Pattern: m.Pattern,
		Params:  m.Params,
		Found:   m.Found,
	})

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr := handler.NewPanicError(p, debug.Stack())
		if ww.Written() {
			s.logger.ErrorContext(r.Context(), "panic after response written",
				logger.Panic(p),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Pattern(m.Pattern),
				logger.StatusCode(ww.Status()),
				slog.String("stack", string(perr.Stack())),
			)
			return
		}
		s.renderError(ctx, perr)
	}()

	if _, err := m.Handler(ctx); err != nil {
		s.renderError(ctx, err)
	}
}

// HTTPHandler runs a plain http.Handler as a terminal step, so existing
// handlers such as a metrics exporter can be registered on a router.
func HTTPHandler[C RequestContext](h http.Handler) handler.Middleware[C] {
	return handler.Endpoint(func(ctx C) (C, error) {
		h.ServeHTTP(ctx.ResponseWriter(), ctx.Request())
		return ctx, nil
	})
}

// unescapeParams decodes values bound from an escaped path. A value that is
// not valid escaping is kept as matched.
func unescapeParams(ps router.Params) router.Params {
	if len(ps) == 0 {
		return ps
	}
	out := make(router.Params, len(ps))
	for i, p := range ps {
		if v, err := url.PathUnescape(p.Value); err == nil {
			p.Value = v
		}
		out[i] = p
	}
	return out
}
