package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

type recoverConfig struct {
	logger *slog.Logger
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

// WithRecoverLogger sets the logger panics are reported to. Default is slog.Default().
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(c *recoverConfig) { c.logger = l }
}

// Recover returns a middleware that recovers panics from downstream handlers.
//
// http.ErrAbortHandler is re-panicked. If the response has not started a 500
// is written; otherwise the response is left alone. Every recovered panic is
// logged at Error with its stack and the request id, if any.
func Recover(opts ...RecoverOption) Middleware {
	var cfg recoverConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("httpx: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logger := cfg.logger
				if logger == nil {
					logger = slog.Default()
				}
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
					"stack", string(debug.Stack()),
				}
				if id, ok := RequestIDFromRequest(r); ok {
					attrs = append(attrs, "request_id", id)
				}
				logger.ErrorContext(r.Context(), "httpx: handler panic", attrs...)

				if !sw.wroteHeader {
					http.Error(sw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// statusWriter records whether the response started, its status and size.
type statusWriter struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
	bytes       int64
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.wroteHeader {
			w.wroteHeader = true
			w.status = http.StatusOK
		}
		f.Flush()
	}
}
