package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/core/web"
	"github.com/dmitrymomot/thicket/middleware"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLoggingRecordsRequest(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.RequestID[ctx](), middleware.LoggingWithLogger[ctx](log))
	b.Get("/users/:id", text(http.StatusCreated, "created"))

	w := serveWith(b, httptest.NewRequest(http.MethodGet, "/users/7?x=1", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="HTTP request completed"`)
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/users/7")
	assert.Contains(t, out, "pattern=/users/:id")
	assert.Contains(t, out, "status_code=201")
	assert.Contains(t, out, "bytes_out=7")
	assert.Contains(t, out, "request_id="+w.Header().Get("X-Request-ID"))
}

func TestLoggingLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		route handler.Middleware[ctx]
		level string
		code  int
	}{
		{"client error", fail(handler.BadRequestError[ctx](nil, "bad")), "level=WARN", http.StatusBadRequest},
		{"server error", fail(errors.New("db down")), "level=ERROR", http.StatusInternalServerError},
		{"not found", nil, "level=WARN", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, buf := newBufferLogger()
			b := router.New[ctx]()
			b.Use("/", middleware.LoggingWithLogger[ctx](log))
			if tt.route != nil {
				b.Get("/x", tt.route)
			} else {
				b.Get("/other", text(http.StatusOK, "ok"))
			}

			w := serveWith(b, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.code, w.Code)

			// "use" middleware only runs for matched routes
			if tt.route == nil {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "status_code="+strconv.Itoa(tt.code))
		})
	}
}

func TestLoggingServerErrorIncludesCause(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.LoggingWithLogger[ctx](log))
	b.Get("/x", fail(errors.New("db down")))

	serveWith(b, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Contains(t, buf.String(), `error="db down"`)
}

func TestLoggingSlowRequest(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
		Logger:               log,
		SlowRequestThreshold: time.Millisecond,
	}))
	b.Get("/slow", handler.Endpoint(func(c ctx) (ctx, error) {
		time.Sleep(5 * time.Millisecond)
		return c, nil
	}))

	serveWith(b, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "slow_request=true")
}

func TestLoggingSkipAndComponent(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
		Logger:    log,
		Component: "api",
		Skip:      func(c web.RequestContext) bool { return strings.HasPrefix(c.Request().URL.Path, "/health") },
	}))
	b.Get("/health", text(http.StatusOK, "ok"))
	b.Get("/work", text(http.StatusOK, "ok"))
	h := web.Handler(b.Commit())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))
	assert.Contains(t, buf.String(), "component=api")
}

func TestLoggingIncludesClientIP(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	b := router.New[ctx]()
	b.Use("/", middleware.ClientIP[ctx](), middleware.LoggingWithLogger[ctx](log))
	b.Get("/", text(http.StatusOK, "ok"))

	serveWith(b, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), "client_ip=192.0.2.1")
}
