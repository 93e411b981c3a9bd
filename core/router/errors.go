package router

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/thicket/core/handler"
)

var (
	// Resolve errors, carried by the built-in handlers
	ErrNotFound         = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")

	// Builder errors
	ErrInvalidMethod  = errors.New("invalid http method")
	ErrNilRouter      = errors.New("nil router")
	ErrNilHandler     = errors.New("nil handler")
	ErrSealed         = errors.New("router builder is sealed")
	ErrDuplicateRoute = errors.New("route already registered")

	// Pattern errors
	ErrInvalidPattern = errors.New("invalid route path pattern")
	ErrEmptyParam     = errors.New("empty parameter name")
	ErrDuplicateParam = errors.New("duplicate parameter name")
	ErrParamConflict  = errors.New("conflicting dynamic segments")
)

// defaultNotFound answers every unmatched path. The context is returned untouched.
func defaultNotFound[C any](ctx C) (C, error) {
	return ctx, handler.NewError(ctx, http.StatusNotFound, "", ErrNotFound)
}

// methodNotAllowed answers methods that have no trie when fallback is disabled.
func methodNotAllowed[C any](ctx C) (C, error) {
	return ctx, handler.NewError(ctx, http.StatusMethodNotAllowed, "", ErrMethodNotAllowed)
}
