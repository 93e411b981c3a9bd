package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thicket/core/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew_Production(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithProduction("api"), logger.WithOutput(&buf))

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("visible", logger.Component("router"))
	rec := decode(t, &buf)
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "api", rec["service"])
	assert.Equal(t, "production", rec["env"])
	assert.Equal(t, "router", rec["component"])
}

func TestNew_DevelopmentIsTextAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("api"), logger.WithOutput(&buf))

	log.Debug("trie committed", logger.Count("routes", 2))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="trie committed"`)
	assert.Contains(t, buf.String(), "routes=2")
	assert.Contains(t, buf.String(), "env=development")
}

func TestNew_LevelOverride(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithLevel(slog.LevelWarn),
		logger.WithOutput(&buf),
	)

	log.Info("dropped")
	assert.Zero(t, buf.Len())
	log.Warn("kept")
	assert.Equal(t, "kept", decode(t, &buf)["msg"])
}

func TestNew_ContextValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "with id")
	assert.Equal(t, "req-1", decode(t, &buf)["request_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	_, ok := decode(t, &buf)["request_id"]
	assert.False(t, ok)
}

func TestNew_ContextExtractorsSurviveWith(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(nil, func(context.Context) (slog.Attr, bool) {
			return logger.Pattern("/users/:id"), true
		}),
	)

	log.With(logger.Component("web")).InfoContext(context.Background(), "request")
	rec := decode(t, &buf)
	assert.Equal(t, "web", rec["component"])
	assert.Equal(t, "/users/:id", rec["pattern"])
}

func TestNew_ExplicitAttrWinsOverExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")
	log.InfoContext(ctx, "request", logger.RequestID("explicit"))
	assert.Contains(t, buf.String(), "request_id=explicit")
	assert.NotContains(t, buf.String(), "from-ctx")
}

func TestNew_RotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	log := logger.New(logger.WithJSONFormatter(), logger.WithRotatingFile(path))
	log.Info("to file", logger.Component("router"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Contains(t, string(data), `"component":"router"`)
}
