package web

import (
	"errors"
	"net/http"
)

// ResponseState is implemented by the writer the adapter hands to every
// request context.
type ResponseState interface {
	Status() int
	Size() int
	Written() bool
}

// responseWriter tracks whether and what a handler has written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Written reports whether the header has been sent.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the status sent, or 0 before the header is written.
func (w *responseWriter) Status() int {
	return w.status
}

// Size returns the number of body bytes written.
func (w *responseWriter) Size() int {
	return w.size
}

// Flush implements http.Flusher if the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// StatusFor reports the status a request ends with once err, if any, has
// been rendered. A response that was already written keeps its status.
func StatusFor(w http.ResponseWriter, err error) int {
	if rs, ok := w.(ResponseState); ok && rs.Written() {
		return rs.Status()
	}
	if err == nil {
		return http.StatusOK
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
