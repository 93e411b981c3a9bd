package router

import (
	"sort"
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
)

// Route describes a single registered route.
type Route struct {
	Method  string
	Pattern string
}

// Router is the committed, immutable form of a Builder. All of its methods
// are safe for concurrent use.
type Router[C any] struct {
	trees            [methodCount]*frozen[C]
	static           [methodCount]map[string]*frozen[C]
	notFound         handler.HandlerFunc[C]
	methodNotAllowed handler.HandlerFunc[C]
	fallback         methodTyp
	hasFallback      bool
	strict           bool
	routes           []Route
}

// Resolve finds the handler for method and path. Anything after '?' or '#'
// is ignored. The returned Match always carries a callable handler.
func (r *Router[C]) Resolve(method, path string) Match[C] {
	mt, ok := methodMap[method]
	if !ok {
		if !r.hasFallback {
			return Match[C]{Handler: r.methodNotAllowed, Method: method}
		}
		mt = r.fallback
	}

	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = trimPath(path, r.strict)

	m := Match[C]{Handler: r.notFound, Method: methodNames[mt]}

	if static := r.static[mt]; static != nil {
		if f, ok := static[path]; ok {
			m.Handler, m.Pattern, m.Found = f.handler, f.pattern, true
			return m
		}
	}

	root := r.trees[mt]
	if root == nil {
		return m
	}

	var params Params
	if f := root.match(path, path == "", &params); f != nil {
		m.Handler, m.Pattern, m.Found = f.handler, f.pattern, true
		if len(params) > 0 {
			m.Params = params
		}
	}
	return m
}

// Handler is a shorthand for Resolve(method, path).Handler.
func (r *Router[C]) Handler(method, path string) handler.HandlerFunc[C] {
	return r.Resolve(method, path).Handler
}

// NotFound returns the handler used for unmatched paths.
func (r *Router[C]) NotFound() handler.HandlerFunc[C] {
	return r.notFound
}

// Routes returns every registered route sorted by pattern, then method.
func (r *Router[C]) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// String renders the committed tries, one method per block. Leaf nodes are
// marked with their pattern.
func (r *Router[C]) String() string {
	var sb strings.Builder
	for mt := range methodCount {
		root := r.trees[mt]
		if root == nil || (!root.isLeaf && len(root.children) == 0 && root.wildcard == nil) {
			continue
		}
		sb.WriteString(methodNames[mt])
		sb.WriteByte('\n')
		root.dump(&sb, "/", 1)
	}
	return sb.String()
}

func (n *frozen[C]) dump(sb *strings.Builder, label string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(label)
	if n.isLeaf {
		sb.WriteString(" => ")
		sb.WriteString(n.pattern)
	}
	sb.WriteByte('\n')

	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.children[k].dump(sb, k, depth+1)
	}
	if n.wildcard != nil {
		n.wildcard.dump(sb, dynamicLabel(n.paramName), depth+1)
	}
}
