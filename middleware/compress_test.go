package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/router"
	"github.com/dmitrymomot/thicket/middleware"
)

var payload = strings.Repeat("thicket routes requests through a segment trie. ", 50)

func compressRouter(mw handler.Middleware[ctx]) *router.Builder[ctx] {
	b := router.New[ctx]()
	b.Use("/", mw)
	b.Get("/text", handler.Endpoint(func(c ctx) (ctx, error) {
		c.ResponseWriter().Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := io.WriteString(c.ResponseWriter(), payload)
		return c, err
	}))
	b.Get("/png", handler.Endpoint(func(c ctx) (ctx, error) {
		c.ResponseWriter().Header().Set("Content-Type", "image/png")
		_, err := io.WriteString(c.ResponseWriter(), payload)
		return c, err
	}))
	b.Get("/empty", handler.Endpoint(func(c ctx) (ctx, error) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
		return c, nil
	}))
	b.Get("/fail", fail(handler.BadRequestError[ctx](nil, "bad input")))
	return b
}

func get(b *router.Builder[ctx], path, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return serveWith(b, req)
}

func decodeBody(t *testing.T, encoding string, body []byte) string {
	t.Helper()

	var r io.Reader
	switch encoding {
	case middleware.EncodingGzip:
		zr, err := gzip.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		r = zr
	case middleware.EncodingBrotli:
		r = brotli.NewReader(bytes.NewReader(body))
	case middleware.EncodingZstd:
		zr, err := zstd.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer zr.Close()
		out, err := io.ReadAll(zr)
		require.NoError(t, err)
		return string(out)
	default:
		return string(body)
	}
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestCompressNegotiation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"gzip only", "gzip", middleware.EncodingGzip},
		{"server preference wins", "gzip, br, zstd", middleware.EncodingZstd},
		{"brotli", "br;q=0.8, gzip;q=0.5", middleware.EncodingBrotli},
		{"refused encoding skipped", "zstd;q=0, br;q=0, gzip", middleware.EncodingGzip},
		{"wildcard", "*", middleware.EncodingZstd},
		{"identity only", "identity", ""},
		{"no header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := get(compressRouter(middleware.Compress[ctx]()), "/text", tt.accept)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
			assert.Equal(t, payload, decodeBody(t, tt.want, w.Body.Bytes()))
			if tt.want != "" {
				assert.Less(t, w.Body.Len(), len(payload))
			}
		})
	}
}

func TestCompressCustomEncodings(t *testing.T) {
	t.Parallel()

	mw := middleware.CompressWithConfig[ctx](middleware.CompressConfig{
		Encodings: []string{middleware.EncodingGzip},
		Level:     9,
	})
	w := get(compressRouter(mw), "/text", "zstd, br, gzip")

	assert.Equal(t, middleware.EncodingGzip, w.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, decodeBody(t, middleware.EncodingGzip, w.Body.Bytes()))
}

func TestCompressSkipsExcludedAndEmptyResponses(t *testing.T) {
	t.Parallel()

	b := compressRouter(middleware.Compress[ctx]())

	w := get(b, "/png", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, payload, w.Body.String())

	w = get(b, "/empty", "gzip")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Zero(t, w.Body.Len())
}

func TestCompressLeavesErrorsUncompressed(t *testing.T) {
	t.Parallel()

	w := get(compressRouter(middleware.Compress[ctx]()), "/fail", "gzip")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "bad input")
}

func TestCompressHead(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodHead, "/text", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serveWith(compressRouter(middleware.Compress[ctx]()), req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestCompressUnsupportedEncodingPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.CompressWithConfig[ctx](middleware.CompressConfig{Encodings: []string{"lzma"}})
	})
}
