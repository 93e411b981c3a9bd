// Package web adapts a committed router.Router to net/http.
//
// The router itself is agnostic of the request representation. This package
// supplies one: a RequestContext interface, a default Context implementation
// and an http.Handler that resolves each request, runs the matched chain and
// renders any returned error.
//
//	b := router.New[*web.Context]()
//	b.Use("/", middleware.RequestID[*web.Context]())
//	b.Get("/users/:id", handler.Endpoint(func(ctx *web.Context) (*web.Context, error) {
//		fmt.Fprintf(ctx.ResponseWriter(), "user %s", ctx.Param("id"))
//		return ctx, nil
//	}))
//
//	http.ListenAndServe(":8080", web.Handler(b.Commit()))
//
// Requests are resolved against the escaped path, so "%2F" never splits a
// segment. Param values are decoded before the context sees them.
//
// Custom context types plug in through NewHandler and a ContextFactory.
// Errors implementing StatusCode() int, handler.Error included, are rendered
// with that status; everything else becomes 500.
package web
