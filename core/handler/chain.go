package handler

// Chain is an ordered sequence of middleware. The first element runs first
// and controls whether the rest ever run.
type Chain[C any] []Middleware[C]

// NewChain builds a chain from the given middleware, skipping nil entries.
func NewChain[C any](middlewares ...Middleware[C]) Chain[C] {
	c := make(Chain[C], 0, len(middlewares))
	for _, m := range middlewares {
		if m != nil {
			c = append(c, m)
		}
	}
	return c
}

// Compose returns a new chain that runs a and then b.
// Neither input is modified.
func Compose[C any](a, b Chain[C]) Chain[C] {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	c := make(Chain[C], 0, len(a)+len(b))
	c = append(c, a...)
	return append(c, b...)
}

// Then folds the chain right to left into a single handler whose innermost
// continuation is final.
func (c Chain[C]) Then(final HandlerFunc[C]) HandlerFunc[C] {
	h := final
	for i := len(c) - 1; i >= 0; i-- {
		h = bind(c[i], h)
	}
	return h
}

// Handler folds the chain with Identity as the innermost continuation.
// An empty chain yields Identity itself.
func (c Chain[C]) Handler() HandlerFunc[C] {
	return c.Then(Identity[C])
}

// Len returns the number of middleware in the chain.
func (c Chain[C]) Len() int {
	return len(c)
}

func bind[C any](m Middleware[C], next HandlerFunc[C]) HandlerFunc[C] {
	return func(ctx C) (C, error) {
		return m(ctx, next)
	}
}
