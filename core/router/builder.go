package router

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/logger"
)

type routeKey struct {
	method  methodTyp
	pattern string
}

// Builder collects routes, "use" middleware and mounted sub-builders.
// It is not safe for concurrent use. Commit turns it into a Router; after
// Commit, or after being mounted into another Builder, every mutating call
// panics with ErrSealed.
type Builder[C any] struct {
	trees    [methodCount]*node[C]
	routes   map[routeKey]struct{}
	notFound handler.HandlerFunc[C]
	fallback string
	strict   bool
	fastPath bool
	logger   *slog.Logger
	sealed   string // why the builder no longer accepts changes
}

// New creates a Builder with the given options.
func New[C any](opts ...Option[C]) *Builder[C] {
	b := &Builder[C]{
		routes:   make(map[routeKey]struct{}),
		notFound: defaultNotFound[C],
		fallback: methodNames[mGET],
		fastPath: true,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for mt := range b.trees {
		b.trees[mt] = newNode[C]("")
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Get registers handlers for GET requests.
func (b *Builder[C]) Get(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mGET, pattern, handlers)
}

// Post registers handlers for POST requests.
func (b *Builder[C]) Post(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mPOST, pattern, handlers)
}

// Put registers handlers for PUT requests.
func (b *Builder[C]) Put(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mPUT, pattern, handlers)
}

// Delete registers handlers for DELETE requests.
func (b *Builder[C]) Delete(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mDELETE, pattern, handlers)
}

// Options registers handlers for OPTIONS requests.
func (b *Builder[C]) Options(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mOPTIONS, pattern, handlers)
}

// Patch registers handlers for PATCH requests.
func (b *Builder[C]) Patch(pattern string, handlers ...handler.Middleware[C]) {
	b.handle(mPATCH, pattern, handlers)
}

// Handle registers handlers for every supported method.
func (b *Builder[C]) Handle(pattern string, handlers ...handler.Middleware[C]) {
	for mt := range methodCount {
		b.handle(mt, pattern, handlers)
	}
}

// Method registers handlers for a single method given by name.
func (b *Builder[C]) Method(method, pattern string, handlers ...handler.Middleware[C]) {
	mt, ok := methodMap[strings.ToUpper(method)]
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
	}
	b.handle(mt, pattern, handlers)
}

// Use registers middleware that applies to the node at prefix and every
// route below it, for all methods. Middleware registered on the same prefix
// runs in registration order; middleware on a shorter prefix runs first.
func (b *Builder[C]) Use(prefix string, middlewares ...handler.Middleware[C]) {
	b.mustBeOpen()
	chain := mustChain(prefix, middlewares)
	segs := b.mustParse(prefix)

	for mt := range methodCount {
		if err := b.trees[mt].addPrefix(segs, chain); err != nil {
			panic(err)
		}
	}

	b.logger.Debug("middleware registered",
		logger.Pattern(canonical(segs)),
		logger.Count("middlewares", len(chain)),
	)
}

// Mount grafts every route and middleware of sub under prefix. Nodes that
// exist on both sides are merged and their chains combined. sub is sealed
// afterwards since its nodes now belong to b.
func (b *Builder[C]) Mount(prefix string, sub *Builder[C]) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, prefix))
	}
	if sub == b {
		panic(fmt.Errorf("%w: cannot mount a builder into itself", ErrInvalidPattern))
	}
	b.mustBeOpen()
	sub.mustBeOpen()

	segs := b.mustParse(prefix)
	for mt := range methodCount {
		if err := b.trees[mt].merge(segs, sub.trees[mt]); err != nil {
			panic(err)
		}
	}

	base := mountBase(segs)
	for key := range sub.routes {
		b.routes[routeKey{method: key.method, pattern: joinPattern(base, key.pattern)}] = struct{}{}
	}

	sub.sealed = "mounted"
	sub.trees = [methodCount]*node[C]{}

	b.logger.Debug("builder mounted",
		logger.Pattern(canonical(segs)),
		logger.Count("routes", len(sub.routes)),
	)
}

// Commit freezes every per-method trie: "use" middleware is pushed down to
// the leaves and each leaf chain is folded into a single handler. The
// returned Router is immutable and safe for concurrent use.
func (b *Builder[C]) Commit() *Router[C] {
	b.mustBeOpen()
	b.sealed = "committed"

	r := &Router[C]{
		notFound:         b.notFound,
		methodNotAllowed: methodNotAllowed[C],
		strict:           b.strict,
		routes:           b.routeList(),
	}
	if b.fallback != "" {
		r.fallback = methodMap[b.fallback]
		r.hasFallback = true
	}

	for mt := range methodCount {
		cm := &committer[C]{
			notFound: b.notFound,
			fastPath: b.fastPath,
			static:   make(map[string]*frozen[C]),
		}
		r.trees[mt] = cm.commit(b.trees[mt], nil, "", true)
		if len(cm.static) > 0 {
			r.static[mt] = cm.static
		}

		b.logger.Debug("trie committed",
			logger.Method(methodNames[mt]),
			logger.Count("nodes", cm.nodes),
			logger.Count("routes", cm.leaves),
			logger.Count("static", len(cm.static)),
		)
	}

	b.trees = [methodCount]*node[C]{}
	return r
}

// handle registers a leaf chain in the trie of one method.
func (b *Builder[C]) handle(mt methodTyp, pattern string, handlers []handler.Middleware[C]) {
	b.mustBeOpen()
	chain := mustChain(pattern, handlers)
	segs := b.mustParse(pattern)

	key := routeKey{method: mt, pattern: canonical(segs)}
	if _, dup := b.routes[key]; dup {
		panic(fmt.Errorf("%w: %s %s", ErrDuplicateRoute, methodNames[mt], key.pattern))
	}

	if _, err := b.trees[mt].addLeaf(segs, chain); err != nil {
		panic(err)
	}
	b.routes[key] = struct{}{}

	b.logger.Debug("route registered",
		logger.Method(methodNames[mt]),
		logger.Pattern(key.pattern),
	)
}

func (b *Builder[C]) mustBeOpen() {
	if b.sealed != "" {
		panic(fmt.Errorf("%w: builder was %s", ErrSealed, b.sealed))
	}
}

func (b *Builder[C]) mustParse(pattern string) []segment {
	segs, err := parsePattern(pattern, b.strict)
	if err != nil {
		panic(err)
	}
	return segs
}

func (b *Builder[C]) routeList() []Route {
	routes := make([]Route, 0, len(b.routes))
	order := make(map[string]methodTyp, methodCount)
	for key := range b.routes {
		routes = append(routes, Route{Method: methodNames[key.method], Pattern: key.pattern})
		order[methodNames[key.method]] = key.method
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Pattern != routes[j].Pattern {
			return routes[i].Pattern < routes[j].Pattern
		}
		return order[routes[i].Method] < order[routes[j].Method]
	})
	return routes
}

func mustChain[C any](pattern string, middlewares []handler.Middleware[C]) handler.Chain[C] {
	if len(middlewares) == 0 {
		panic(fmt.Errorf("%w: no handlers for '%s'", ErrNilHandler, pattern))
	}
	for _, m := range middlewares {
		if m == nil {
			panic(fmt.Errorf("%w: '%s'", ErrNilHandler, pattern))
		}
	}
	return handler.NewChain(middlewares...)
}

func joinPattern(base, pattern string) string {
	switch {
	case base == "":
		return pattern
	case pattern == "/":
		return base
	default:
		return base + pattern
	}
}
