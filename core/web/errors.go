package web

import (
	"errors"
	"net/http"
)

// ErrNoContextFactory is raised by NewHandler when no factory is given.
var ErrNoContextFactory = errors.New("no context factory provided")

// statusCoder is implemented by errors that carry an HTTP status,
// handler.Error among them.
type statusCoder interface {
	StatusCode() int
}

// ErrorRenderer writes an error returned by a route chain to the response.
type ErrorRenderer[C RequestContext] func(ctx C, err error)

// DefaultErrorRenderer writes a plain-text error with the status from
// StatusFor. Server errors are reported by status text only. Nothing is
// written when the handler already sent a response.
func DefaultErrorRenderer[C RequestContext](ctx C, err error) {
	w := ctx.ResponseWriter()
	if rs, ok := w.(ResponseState); ok && rs.Written() {
		return
	}

	status := StatusFor(w, err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}
