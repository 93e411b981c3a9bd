package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ContextExtractor pulls an attribute out of a context. It reports false
// when the context carries nothing to log.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type options struct {
	level      slog.Leveler
	json       bool
	output     io.Writer
	attrs      []slog.Attr
	handlerOpt *slog.HandlerOptions
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*options)

// New builds a logger. Without options it writes text at INFO to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	if o.handlerOpt != nil {
		hopts = o.handlerOpt
		if hopts.Level == nil {
			hopts.Level = o.level
		}
	}

	var h slog.Handler
	if o.json {
		h = slog.NewJSONHandler(o.output, hopts)
	} else {
		h = slog.NewTextHandler(o.output, hopts)
	}
	if len(o.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: o.extractors}
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(h)
}

// WithDevelopment logs text at DEBUG and tags records with the service name.
func WithDevelopment(service string) Option {
	return preset(service, "development", slog.LevelDebug, false)
}

// WithStaging logs JSON at DEBUG.
func WithStaging(service string) Option {
	return preset(service, "staging", slog.LevelDebug, true)
}

// WithProduction logs JSON at INFO.
func WithProduction(service string) Option {
	return preset(service, "production", slog.LevelInfo, true)
}

func preset(service, env string, level slog.Level, json bool) Option {
	return func(o *options) {
		o.level = level
		o.json = json
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", env))
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSONFormatter switches output to JSON.
func WithJSONFormatter() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithTextFormatter switches output to logfmt-style text.
func WithTextFormatter() Option {
	return func(o *options) {
		o.json = false
	}
}

// WithOutput redirects output. A nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithRotatingFile writes to filename, rolling it at 256 MB and keeping
// compressed backups for a week.
func WithRotatingFile(filename string) Option {
	return func(o *options) {
		if filename == "" {
			return
		}
		o.output = &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    256,
			MaxBackups: 80,
			MaxAge:     7,
			Compress:   true,
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithHandlerOptions replaces the handler options. A nil Level falls back
// to the configured level.
func WithHandlerOptions(hopts *slog.HandlerOptions) Option {
	return func(o *options) {
		o.handlerOpt = hopts
	}
}

// WithContextExtractors adds extractors that run on every record logged
// with a context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, e := range extractors {
			if e != nil {
				o.extractors = append(o.extractors, e)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name when present.
func WithContextValue(name string, key any) Option {
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	})
}

type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

// Handle adds extracted attributes whose key the record does not already carry.
func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx == nil {
		return h.Handler.Handle(ctx, r)
	}

	var keys map[string]struct{}
	for _, extract := range h.extractors {
		attr, ok := extract(ctx)
		if !ok || attr.Equal(slog.Attr{}) {
			continue
		}
		if keys == nil {
			keys = make(map[string]struct{}, r.NumAttrs())
			r.Attrs(func(a slog.Attr) bool {
				keys[a.Key] = struct{}{}
				return true
			})
		}
		if _, dup := keys[attr.Key]; dup {
			continue
		}
		keys[attr.Key] = struct{}{}
		r.AddAttrs(attr)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
