package handler

import (
	"errors"
	"net/http"
)

// Error is returned by a chain that stopped early. It keeps the context so
// that a renderer can still build a response from partial state.
type Error[C any] struct {
	Context C
	Status  int
	Message string
	Err     error
}

// NewError creates an Error. An empty message falls back to the status text.
func NewError[C any](ctx C, status int, message string, cause error) *Error[C] {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error[C]{
		Context: ctx,
		Status:  status,
		Message: message,
		Err:     cause,
	}
}

// Error implements the error interface.
func (e *Error[C]) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

// Unwrap allows errors.Is/As to reach the cause.
func (e *Error[C]) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status, defaulting to 500.
func (e *Error[C]) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// BadRequestError reports input that could not be parsed.
func BadRequestError[C any](ctx C, message string) *Error[C] {
	return NewError(ctx, http.StatusBadRequest, message, nil)
}

// NotFoundError reports a missing resource.
func NotFoundError[C any](ctx C) *Error[C] {
	return NewError(ctx, http.StatusNotFound, "", nil)
}

// UnauthorizedError reports a request without valid credentials.
func UnauthorizedError[C any](ctx C) *Error[C] {
	return NewError(ctx, http.StatusUnauthorized, "", nil)
}

// InternalError wraps an unexpected failure.
func InternalError[C any](ctx C, cause error) *Error[C] {
	return NewError(ctx, http.StatusInternalServerError, "", cause)
}

// ContextOf extracts the context carried by an *Error[C] anywhere in err's chain.
func ContextOf[C any](err error) (C, bool) {
	var e *Error[C]
	if errors.As(err, &e) {
		return e.Context, true
	}
	var zero C
	return zero, false
}
