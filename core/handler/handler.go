package handler

// HandlerFunc processes a request context and hands it back, possibly modified.
// A non-nil error ends processing; when it is an *Error[C] it carries the
// context as it stood at the point of failure.
type HandlerFunc[C any] func(ctx C) (C, error)

// Middleware is a continuation-passing step of a chain. It receives the rest
// of the chain as next and decides whether and when to invoke it.
type Middleware[C any] func(ctx C, next HandlerFunc[C]) (C, error)

// Identity returns ctx unchanged. It terminates every composed chain.
func Identity[C any](ctx C) (C, error) {
	return ctx, nil
}

// Endpoint turns a plain handler into a terminal middleware that never calls next.
func Endpoint[C any](h HandlerFunc[C]) Middleware[C] {
	return func(ctx C, _ HandlerFunc[C]) (C, error) {
		return h(ctx)
	}
}

// Wrap adapts a decorator-style middleware to the continuation-passing shape.
// The decorator is applied on every call, so prefer native Middleware values
// on hot paths.
func Wrap[C any](decorate func(next HandlerFunc[C]) HandlerFunc[C]) Middleware[C] {
	return func(ctx C, next HandlerFunc[C]) (C, error) {
		return decorate(next)(ctx)
	}
}
