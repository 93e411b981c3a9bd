package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/dmitrymomot/thicket/core/handler"
	"github.com/dmitrymomot/thicket/core/web"
)

// Supported Content-Encoding tokens.
const (
	EncodingZstd   = "zstd"
	EncodingBrotli = "br"
	EncodingGzip   = "gzip"
)

// CompressConfig configures the response compression middleware.
type CompressConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx web.RequestContext) bool
	// Encodings lists the offered encodings in server preference order
	// (default: zstd, br, gzip)
	Encodings []string
	// Level is the compression level passed to every encoder; 0 picks each
	// encoder's default
	Level int
	// ExcludedContentTypes are prefixes of content types sent as is
	// (default: image/, video/, audio/, application/zip, application/gzip)
	ExcludedContentTypes []string
}

type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
	Flush() error
}

// Compress compresses responses with the best encoding the client accepts.
func Compress[C web.RequestContext]() handler.Middleware[C] {
	return CompressWithConfig[C](CompressConfig{})
}

// CompressWithConfig negotiates Accept-Encoding against cfg.Encodings and
// swaps the context's response writer for an encoding one. The context must
// implement web.WriterSwapper; other contexts pass through untouched. The
// encoder is started lazily on the first write, so empty responses and
// responses that already carry a Content-Encoding are left alone. The
// original writer is restored before returning, so errors rendered later
// are sent uncompressed.
func CompressWithConfig[C web.RequestContext](cfg CompressConfig) handler.Middleware[C] {
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = []string{EncodingZstd, EncodingBrotli, EncodingGzip}
	}
	if cfg.ExcludedContentTypes == nil {
		cfg.ExcludedContentTypes = []string{"image/", "video/", "audio/", "application/zip", "application/gzip"}
	}

	pools := make(map[string]*sync.Pool, len(cfg.Encodings))
	for _, enc := range cfg.Encodings {
		newEncoder := encoderFactory(enc, cfg.Level)
		if newEncoder == nil {
			panic("compress middleware: unsupported encoding " + strconv.Quote(enc))
		}
		pools[enc] = &sync.Pool{New: func() any { return newEncoder() }}
	}

	return func(ctx C, next handler.HandlerFunc[C]) (C, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next(ctx)
		}
		swapper, ok := any(ctx).(web.WriterSwapper)
		if !ok || ctx.Request().Method == http.MethodHead {
			return next(ctx)
		}

		w := ctx.ResponseWriter()
		w.Header().Add("Vary", "Accept-Encoding")

		enc := negotiate(ctx.Request().Header.Get("Accept-Encoding"), cfg.Encodings)
		if enc == "" {
			return next(ctx)
		}

		cw := &compressWriter{
			ResponseWriter: w,
			encoding:       enc,
			pool:           pools[enc],
			excluded:       cfg.ExcludedContentTypes,
		}
		swapper.SetResponseWriter(cw)
		defer func() {
			cw.Close()
			swapper.SetResponseWriter(w)
		}()

		return next(ctx)
	}
}

func encoderFactory(enc string, level int) func() encoder {
	switch enc {
	case EncodingGzip:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return func() encoder {
			zw, err := gzip.NewWriterLevel(io.Discard, level)
			if err != nil {
				zw = gzip.NewWriter(io.Discard)
			}
			return zw
		}
	case EncodingBrotli:
		if level == 0 {
			level = 4
		}
		return func() encoder {
			return brotli.NewWriterLevel(io.Discard, level)
		}
	case EncodingZstd:
		speed := zstd.SpeedDefault
		if level != 0 {
			speed = zstd.EncoderLevelFromZstd(level)
		}
		return func() encoder {
			zw, _ := zstd.NewWriter(io.Discard,
				zstd.WithEncoderLevel(speed),
				zstd.WithEncoderConcurrency(1),
			)
			return zw
		}
	}
	return nil
}

// negotiate picks the first offered encoding the client accepts with a
// non-zero quality. "*" accepts anything not listed explicitly.
func negotiate(header string, offered []string) string {
	if header == "" {
		return ""
	}

	accepted := make(map[string]bool)
	for part := range strings.SplitSeq(header, ",") {
		token, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		accepted[token] = qualityOf(params) > 0
	}

	for _, enc := range offered {
		if ok, listed := accepted[enc]; listed {
			if ok {
				return enc
			}
			continue
		}
		if accepted["*"] {
			return enc
		}
	}
	return ""
}

func qualityOf(params string) float64 {
	for p := range strings.SplitSeq(params, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || strings.TrimSpace(k) != "q" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return q
	}
	return 1
}

// compressWriter encodes the body once the handler commits to a response
// that can be compressed.
type compressWriter struct {
	http.ResponseWriter
	encoding string
	pool     *sync.Pool
	excluded []string
	enc      encoder
	decided  bool
}

func (w *compressWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true

	h := w.Header()
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return
	}
	if h.Get("Content-Encoding") != "" {
		return
	}
	ct := h.Get("Content-Type")
	for _, prefix := range w.excluded {
		if strings.HasPrefix(ct, prefix) {
			return
		}
	}

	h.Set("Content-Encoding", w.encoding)
	h.Del("Content-Length")
	w.enc = w.pool.Get().(encoder)
	w.enc.Reset(w.ResponseWriter)
}

func (w *compressWriter) WriteHeader(status int) {
	w.decide(status)
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.decided {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.enc == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.enc.Write(b)
}

// Flush pushes buffered encoded bytes to the client.
func (w *compressWriter) Flush() {
	if !w.decided {
		w.WriteHeader(http.StatusOK)
	}
	if w.enc != nil {
		_ = w.enc.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Close finishes the encoded stream and returns the encoder to its pool.
func (w *compressWriter) Close() {
	if w.enc == nil {
		return
	}
	_ = w.enc.Close()
	w.enc.Reset(io.Discard)
	w.pool.Put(w.enc)
	w.enc = nil
}

func (w *compressWriter) Written() bool {
	if rs, ok := w.ResponseWriter.(web.ResponseState); ok {
		return rs.Written()
	}
	return w.decided
}

func (w *compressWriter) Status() int {
	if rs, ok := w.ResponseWriter.(web.ResponseState); ok {
		return rs.Status()
	}
	return 0
}

func (w *compressWriter) Size() int {
	if rs, ok := w.ResponseWriter.(web.ResponseState); ok {
		return rs.Size()
	}
	return 0
}

func (w *compressWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
