package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

type accessLogConfig struct {
	logger *slog.Logger
	level  slog.Level
}

// AccessLogOption configures AccessLog.
type AccessLogOption func(*accessLogConfig)

// WithAccessLogger sets the logger. Default is slog.Default().
func WithAccessLogger(l *slog.Logger) AccessLogOption {
	return func(c *accessLogConfig) { c.logger = l }
}

// WithAccessLogLevel sets the level for 1xx-4xx responses. 5xx responses are
// always logged at Error. Default is Debug.
func WithAccessLogLevel(l slog.Level) AccessLogOption {
	return func(c *accessLogConfig) { c.level = l }
}

// AccessLog returns a middleware that logs one record per request.
//
// Place it inside RequestID so the record carries the request id.
func AccessLog(opts ...AccessLogOption) Middleware {
	cfg := accessLogConfig{level: slog.LevelDebug}
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
			logger := cfg.logger
			if logger == nil {
				logger = slog.Default()
			}
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			status := sw.status
			if !sw.wroteHeader {
				status = http.StatusOK
			}
			level := cfg.level
			if status >= 500 {
				level = slog.LevelError
			}
			if !logger.Enabled(r.Context(), level) {
				return
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", sw.bytes,
				"duration", time.Since(start),
			}
			if id, ok := RequestIDFromRequest(r); ok {
				attrs = append(attrs, "request_id", id)
			}
			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}
