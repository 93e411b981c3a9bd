// Package router provides a generic, in-process request router built on a
// per-method segment trie.
//
// Routes are registered on a mutable Builder and frozen by Commit into an
// immutable Router. The router never touches HTTP bytes: it maps a method and
// a path to a single composed handler plus the path parameters bound along
// the way. The context type C is chosen by the caller.
//
// # Patterns
//
// A pattern is split on '/' into segments:
//
//   - literal segments match exactly ("/users")
//   - ":name" matches any one non-empty segment and binds it to name
//   - "*" matches any one segment; as the last segment it also matches
//     everything that remains, including nothing
//
// Literal children are always tried before the dynamic child at the same
// depth, and the matcher backtracks into the dynamic child when a literal
// branch dead-ends deeper down. Two different dynamic segments at one depth
// (":id" next to ":name", or ":id" next to "*") are rejected at registration.
//
// # Handlers and middleware
//
// Handlers and middleware share one shape, handler.Middleware[C]: a function
// that receives the context and a continuation. Route handlers registered with
// Get, Post and friends form the leaf chain of a node. Use registers a chain
// that applies to a node and every descendant; it is stored on the node and
// pushed down to the leaves only at Commit. The resulting order for a request
// is: Use chains from the root down, then the leaf chain.
//
//	b := router.New[*web.Context]()
//	b.Use("/", middleware.RequestID[*web.Context]())
//	b.Use("/admin", requireAdmin)
//	b.Get("/admin/users/:id", handler.Endpoint(showUser))
//
//	api := router.New[*web.Context]()
//	api.Get("/status", handler.Endpoint(status))
//	b.Mount("/api", api)
//
//	r := b.Commit()
//	m := r.Resolve("GET", "/admin/users/42?verbose=1")
//	// m.Found == true, m.Params.ByName("id") == "42"
//
// # Commit
//
// Commit walks each trie once, accumulating Use chains, and folds every leaf
// into a ready-to-call handler. Nodes that are not leaves answer with the
// not-found handler. Literal-only routes are also indexed in a lookup table
// that Resolve consults before walking the trie; WithFastPath(false) turns it
// off. After Commit the Builder is sealed and further registration panics.
//
// # Methods
//
// GET, POST, PUT, DELETE, OPTIONS and PATCH each get their own trie. Other
// methods resolve against the fallback trie, GET unless changed with
// WithFallbackMethod. An empty fallback makes such requests resolve to a
// handler returning ErrMethodNotAllowed.
//
// # Errors
//
// Misuse at registration time (bad patterns, duplicate routes, conflicting
// dynamic segments, changes after Commit) panics with an error wrapping one of
// the package sentinels. Resolve never panics.
package router
