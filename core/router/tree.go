package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
)

type methodTyp uint8

const (
	mGET methodTyp = iota
	mPOST
	mPUT
	mDELETE
	mOPTIONS
	mPATCH

	methodCount
)

var methodMap = map[string]methodTyp{
	http.MethodGet:     mGET,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodDelete:  mDELETE,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
}

var methodNames = [methodCount]string{
	mGET:     http.MethodGet,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mDELETE:  http.MethodDelete,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
}

type segTyp uint8

const (
	segLiteral  segTyp = iota // /users
	segParam                  // /:id
	segWildcard               // /*
)

type segment struct {
	typ  segTyp
	text string // literal text or param name
}

func (s segment) String() string {
	switch s.typ {
	case segParam:
		return ":" + s.text
	case segWildcard:
		return "*"
	default:
		return s.text
	}
}

// node is a mutable trie vertex. It only exists between registration and commit.
type node[C any] struct {
	// literal text this node matches; "*" for the dynamic child
	piece string

	// exact-literal children keyed by segment
	children map[string]*node[C]

	// single dynamic child, shared by named params and bare wildcards
	wildcard *node[C]

	// name bound by the wildcard child; empty for a bare wildcard
	paramName string

	// chain registered to terminate exactly here
	leaf handler.Chain[C]

	// "use" chain applied to this node and every descendant
	prefix handler.Chain[C]

	isLeaf bool

	// canonical pattern of the registration that made this node a leaf
	pattern string
}

func newNode[C any](piece string) *node[C] {
	return &node[C]{piece: piece}
}

// trimPath strips one leading slash and, unless strict, one trailing slash.
func trimPath(path string, strict bool) string {
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	if !strict && len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}

// parsePattern splits a route pattern into classified segments.
func parsePattern(pattern string, strict bool) ([]segment, error) {
	path := trimPath(pattern, strict)
	if path == "" {
		return nil, nil
	}

	pieces := strings.Split(path, "/")
	segs := make([]segment, 0, len(pieces))
	seen := make(map[string]struct{})

	for _, piece := range pieces {
		switch {
		case strings.HasPrefix(piece, ":"):
			name := piece[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: '%s'", ErrEmptyParam, pattern)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: '%s' has duplicate key '%s'", ErrDuplicateParam, pattern, name)
			}
			seen[name] = struct{}{}
			segs = append(segs, segment{typ: segParam, text: name})
		case piece == "*":
			segs = append(segs, segment{typ: segWildcard})
		case strings.HasPrefix(piece, "*"):
			return nil, fmt.Errorf("%w: '%s': wildcard must be a whole segment", ErrInvalidPattern, pattern)
		default:
			segs = append(segs, segment{typ: segLiteral, text: piece})
		}
	}
	return segs, nil
}

// canonical renders segments back into a pattern with a leading slash.
func canonical(segs []segment) string {
	if len(segs) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteByte('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

// descend walks or creates the path described by segs and returns the final node.
func (n *node[C]) descend(segs []segment) (*node[C], error) {
	cur := n
	for _, s := range segs {
		var err error
		if cur, err = cur.child(s); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// child returns the child for s, creating it on first encounter.
func (n *node[C]) child(s segment) (*node[C], error) {
	if s.typ == segLiteral {
		if c, ok := n.children[s.text]; ok {
			return c, nil
		}
		if n.children == nil {
			n.children = make(map[string]*node[C])
		}
		c := newNode[C](s.text)
		n.children[s.text] = c
		return c, nil
	}

	name := ""
	if s.typ == segParam {
		name = s.text
	}
	if n.wildcard != nil {
		if n.paramName != name {
			return nil, conflictError(n.paramName, name)
		}
		return n.wildcard, nil
	}
	n.wildcard = newNode[C]("*")
	n.paramName = name
	return n.wildcard, nil
}

// addLeaf registers chain as the value terminating at segs.
// An existing leaf chain is combined rather than replaced.
func (n *node[C]) addLeaf(segs []segment, chain handler.Chain[C]) (*node[C], error) {
	target, err := n.descend(segs)
	if err != nil {
		return nil, err
	}
	if !target.isLeaf {
		target.pattern = canonical(segs)
	}
	target.isLeaf = true
	target.leaf = handler.Compose(target.leaf, chain)
	return target, nil
}

// addPrefix registers chain to apply to the node at segs and all its descendants.
func (n *node[C]) addPrefix(segs []segment, chain handler.Chain[C]) error {
	target, err := n.descend(segs)
	if err != nil {
		return err
	}
	target.prefix = handler.Compose(target.prefix, chain)
	return nil
}

// merge grafts other onto the node at segs. Leaf patterns of grafted nodes
// are rewritten to include the mount prefix.
func (n *node[C]) merge(segs []segment, other *node[C]) error {
	bound := make(map[string]struct{})
	for _, s := range segs {
		if s.typ == segParam {
			bound[s.text] = struct{}{}
		}
	}
	if err := other.checkParams(bound, mountBase(segs)); err != nil {
		return err
	}

	target, err := n.descend(segs)
	if err != nil {
		return err
	}
	other.rebase(mountBase(segs))
	return target.mergeNode(other)
}

// mountBase is the pattern prefix for nodes grafted at segs: empty at the
// root, otherwise the canonical prefix including any trailing empty segment.
func mountBase(segs []segment) string {
	if len(segs) == 0 {
		return ""
	}
	return canonical(segs)
}

// checkParams reports a param name in the subtree that is already bound on
// the path leading to it.
func (n *node[C]) checkParams(bound map[string]struct{}, base string) error {
	for _, c := range n.children {
		if err := c.checkParams(bound, base); err != nil {
			return err
		}
	}
	if n.wildcard == nil {
		return nil
	}
	if n.paramName == "" {
		return n.wildcard.checkParams(bound, base)
	}
	if _, dup := bound[n.paramName]; dup {
		return fmt.Errorf("%w: mount at '%s' rebinds key '%s'", ErrDuplicateParam, base, n.paramName)
	}
	bound[n.paramName] = struct{}{}
	defer delete(bound, n.paramName)
	return n.wildcard.checkParams(bound, base)
}

func (n *node[C]) mergeNode(other *node[C]) error {
	n.leaf = handler.Compose(n.leaf, other.leaf)
	n.prefix = handler.Compose(n.prefix, other.prefix)
	if other.isLeaf && !n.isLeaf {
		n.pattern = other.pattern
	}
	n.isLeaf = n.isLeaf || other.isLeaf

	for key, oc := range other.children {
		if c, ok := n.children[key]; ok {
			if err := c.mergeNode(oc); err != nil {
				return err
			}
			continue
		}
		if n.children == nil {
			n.children = make(map[string]*node[C])
		}
		n.children[key] = oc
	}

	if other.wildcard == nil {
		return nil
	}
	if n.wildcard == nil {
		n.wildcard = other.wildcard
		n.paramName = other.paramName
		return nil
	}
	if n.paramName != other.paramName {
		return conflictError(n.paramName, other.paramName)
	}
	return n.wildcard.mergeNode(other.wildcard)
}

// rebase prepends prefix to every leaf pattern in the subtree.
func (n *node[C]) rebase(prefix string) {
	if prefix == "" {
		return
	}
	if n.isLeaf {
		if n.pattern == "/" {
			n.pattern = prefix
		} else {
			n.pattern = prefix + n.pattern
		}
	}
	for _, c := range n.children {
		c.rebase(prefix)
	}
	if n.wildcard != nil {
		n.wildcard.rebase(prefix)
	}
}

// count returns the number of nodes in the subtree.
func (n *node[C]) count() int {
	total := 1
	for _, c := range n.children {
		total += c.count()
	}
	if n.wildcard != nil {
		total += n.wildcard.count()
	}
	return total
}

func conflictError(existing, incoming string) error {
	return fmt.Errorf("%w: '%s' and '%s' at the same depth",
		ErrParamConflict, dynamicLabel(existing), dynamicLabel(incoming))
}

func dynamicLabel(name string) string {
	if name == "" {
		return "*"
	}
	return ":" + name
}
