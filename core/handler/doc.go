// Package handler defines the handler and middleware shapes shared by the
// router and everything built on it, and the combinator that folds an ordered
// list of middleware into one callable handler.
//
// # Core Types
//
//	// Processes a context and hands it back, or stops with an error.
//	type HandlerFunc[C any] func(ctx C) (C, error)
//
//	// Receives the rest of the chain as next and decides whether to call it.
//	type Middleware[C any] func(ctx C, next HandlerFunc[C]) (C, error)
//
//	// Ordered middleware; the first element runs first.
//	type Chain[C any] []Middleware[C]
//
// The context type C is opaque here. Routers instantiate it with whatever
// request context the application uses; tests often use a plain int.
//
// # Composition
//
// Compose concatenates chains. Handler folds a chain right to left so that
// [m1, m2, m3] becomes m1(ctx, m2(ctx, m3(ctx, Identity))):
//
//	timing := func(ctx *AppContext, next handler.HandlerFunc[*AppContext]) (*AppContext, error) {
//		start := time.Now()
//		ctx, err := next(ctx)
//		ctx.Elapsed = time.Since(start)
//		return ctx, err
//	}
//
//	auth := func(ctx *AppContext, next handler.HandlerFunc[*AppContext]) (*AppContext, error) {
//		if ctx.User == nil {
//			return ctx, handler.UnauthorizedError(ctx)
//		}
//		return next(ctx)
//	}
//
//	h := handler.NewChain(timing, auth, handler.Endpoint(showProfile)).Handler()
//
// The fold happens once. Calling h afterwards allocates nothing for the chain
// itself, which is why routers compose at commit time rather than per request.
//
// # Short-circuit
//
// A middleware that returns without calling next stops the chain. Returning an
// *Error[C] keeps the context at the point of failure so that recovery or
// rendering code can still use it:
//
//	if ctx, ok := handler.ContextOf[*AppContext](err); ok {
//		render(ctx, err)
//	}
package handler
