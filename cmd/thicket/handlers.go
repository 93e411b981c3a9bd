package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

type ctx = *web.Context

func writeJSON(c ctx, status int, v any) error {
	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func getUser(c ctx) (ctx, error) {
	return c, writeJSON(c, http.StatusOK, map[string]string{"id": c.Param("id")})
}

func getPost(c ctx) (ctx, error) {
	return c, writeJSON(c, http.StatusOK, map[string]string{
		"user": c.Param("id"),
		"post": c.Param("post"),
	})
}

func createUser(c ctx) (ctx, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return c, handler.BadRequestError(c, "invalid JSON body")
	}
	if strings.TrimSpace(in.Name) == "" {
		return c, handler.BadRequestError(c, "name is required")
	}
	return c, writeJSON(c, http.StatusCreated, in)
}

// staticFile answers for anything under /static; the catch-all binds no
// parameter, so the remainder is taken from the request path.
func staticFile(c ctx) (ctx, error) {
	file := strings.TrimPrefix(c.Request().URL.Path, "/static")
	return c, writeJSON(c, http.StatusOK, map[string]string{"file": strings.TrimPrefix(file, "/")})
}
