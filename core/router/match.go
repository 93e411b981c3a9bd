package router

import (
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
)

// Match is the outcome of resolving a request. Handler is never nil: when no
// route matched it is the not-found (or method-not-allowed) handler.
type Match[C any] struct {
	Handler handler.HandlerFunc[C]
	Params  Params
	// Pattern is the registered pattern of the matched route.
	Pattern string
	// Method is the trie the request was resolved against.
	Method string
	Found  bool
}

// cut splits off the next segment of rest. last reports that seg was the final one.
func cut(rest string) (seg, next string, last bool) {
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return rest, "", true
	}
	return rest[:i], rest[i+1:], false
}

// match walks the committed trie. Exact children are tried first; on failure
// the wildcard child is tried with the same remaining path. Params appended at
// a level are truncated again when that level backtracks.
func (n *frozen[C]) match(rest string, done bool, params *Params) *frozen[C] {
	if done {
		if n.isLeaf {
			return n
		}
		// A bare trailing wildcard also matches an empty remainder.
		if n.wildcard != nil && n.paramName == "" && n.wildcard.isLeaf {
			return n.wildcard
		}
		return nil
	}

	seg, next, last := cut(rest)

	if c, ok := n.children[seg]; ok {
		if m := c.match(next, last, params); m != nil {
			return m
		}
	}

	w := n.wildcard
	if w == nil {
		return nil
	}

	mark := len(*params)
	if n.paramName != "" {
		if seg == "" {
			return nil
		}
		*params = append(*params, Param{Key: n.paramName, Value: seg})
	}

	if m := w.match(next, last, params); m != nil {
		return m
	}
	*params = (*params)[:mark]

	// A bare wildcard leaf swallows whatever remains.
	if n.paramName == "" && w.isLeaf {
		return w
	}
	return nil
}
