package web

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/thicket/core/router"
)

// RequestContext is the contract the bundled middleware relies on.
// Context is the default implementation.
type RequestContext interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	Pattern() string
	SetValue(key, val any)
}

// WriterSwapper is implemented by contexts that let middleware replace the
// response writer, for example to compress the body.
type WriterSwapper interface {
	SetResponseWriter(w http.ResponseWriter)
}

// RequestSwapper is implemented by contexts that let middleware replace the
// request, for example to carry a derived context.Context.
type RequestSwapper interface {
	SetRequest(r *http.Request)
}

// Route describes what the router resolved for a request.
type Route struct {
	Method  string
	Pattern string
	Params  router.Params
	Found   bool
}

// ContextFactory builds the per-request context handed to the route chain.
type ContextFactory[C RequestContext] func(w http.ResponseWriter, r *http.Request, route Route) C

// Context is the default request context. It delegates context.Context
// methods to the request's context.
type Context struct {
	w     http.ResponseWriter
	r     *http.Request
	route Route
}

var (
	_ RequestContext = (*Context)(nil)
	_ WriterSwapper  = (*Context)(nil)
	_ RequestSwapper = (*Context)(nil)
)

// NewContext is the default ContextFactory.
func NewContext(w http.ResponseWriter, r *http.Request, route Route) *Context {
	return &Context{w: w, r: r, route: route}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// SetRequest replaces the request returned by Request. A nil request is ignored.
func (c *Context) SetRequest(r *http.Request) {
	if r != nil {
		c.r = r
	}
}

// SetResponseWriter replaces the writer returned by ResponseWriter.
func (c *Context) SetResponseWriter(w http.ResponseWriter) {
	c.w = w
}

// Param returns the path parameter bound to key, or an empty string.
func (c *Context) Param(key string) string {
	return c.route.Params.ByName(key)
}

// Params returns every path parameter in path order.
func (c *Context) Params() router.Params {
	return c.route.Params
}

// Pattern returns the registered pattern of the matched route.
// Empty when nothing matched.
func (c *Context) Pattern() string {
	return c.route.Pattern
}

// Route returns the resolution result for this request.
func (c *Context) Route() Route {
	return c.route
}

// SetValue stores val in the request's context under key.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
