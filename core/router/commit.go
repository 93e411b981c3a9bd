package router

import (
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
)

// frozen is an immutable trie vertex produced by commit. Every frozen node
// holds a ready-to-call handler; nodes that never became leaves share the
// not-found handler.
type frozen[C any] struct {
	piece     string
	children  map[string]*frozen[C]
	wildcard  *frozen[C]
	paramName string
	handler   handler.HandlerFunc[C]
	isLeaf    bool
	pattern   string
}

// committer carries the per-commit state shared across the traversal.
type committer[C any] struct {
	notFound handler.HandlerFunc[C]
	fastPath bool
	static   map[string]*frozen[C]
	nodes    int
	leaves   int
}

// commit freezes the subtree rooted at n. inherited is the "use" chain
// accumulated from ancestors; literal is the literal path to n with one
// leading slash per segment ("" at the root) and is only meaningful while
// onlyLiteral holds.
func (cm *committer[C]) commit(n *node[C], inherited handler.Chain[C], literal string, onlyLiteral bool) *frozen[C] {
	cm.nodes++

	acc := inherited
	if len(n.prefix) > 0 {
		acc = handler.Compose(inherited, n.prefix)
	}

	f := &frozen[C]{
		piece:     n.piece,
		paramName: n.paramName,
		isLeaf:    n.isLeaf,
		pattern:   n.pattern,
		handler:   cm.notFound,
	}

	if n.isLeaf {
		cm.leaves++
		f.handler = handler.Compose(acc, n.leaf).Handler()
		if cm.fastPath && onlyLiteral {
			// same form as a request path after trimPath
			cm.static[strings.TrimPrefix(literal, "/")] = f
		}
	}

	if len(n.children) > 0 {
		f.children = make(map[string]*frozen[C], len(n.children))
		for key, c := range n.children {
			f.children[key] = cm.commit(c, acc, literal+"/"+key, onlyLiteral)
		}
	}

	if n.wildcard != nil {
		f.wildcard = cm.commit(n.wildcard, acc, "", false)
	}

	return f
}
