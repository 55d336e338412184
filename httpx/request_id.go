package httpx

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid/v5"
)

// DefaultRequestIDHeader is the header used for request id propagation.
const DefaultRequestIDHeader = "X-Request-ID"

const maxIncomingRequestIDLen = 128

// RequestIDGenerator generates a new request id.
type RequestIDGenerator func() (string, error)

type requestIDConfig struct {
	trustIncoming bool
	gen           RequestIDGenerator
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

// WithTrustIncoming controls whether a valid incoming X-Request-ID is reused.
// Default is true.
func WithTrustIncoming(v bool) RequestIDOption {
	return func(c *requestIDConfig) { c.trustIncoming = v }
}

// WithGenerator overrides the id generator. Default is NewRequestID.
func WithGenerator(fn RequestIDGenerator) RequestIDOption {
	return func(c *requestIDConfig) {
		if fn != nil {
			c.gen = fn
		}
	}
}

// NewRequestID returns a random UUIDv4 string.
func NewRequestID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RequestID returns a middleware that ensures each request carries a request id.
//
// A single, valid incoming X-Request-ID (at most 128 chars of [A-Za-z0-9._-])
// is reused when trusted; otherwise a new id is generated. The id is stored in
// the request context and echoed in the response header.
func RequestID(opts ...RequestIDOption) Middleware {
	cfg := requestIDConfig{trustIncoming: true, gen: NewRequestID}
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
			id := ""
			if cfg.trustIncoming {
				if vs := r.Header.Values(DefaultRequestIDHeader); len(vs) == 1 && validRequestID(vs[0]) {
					id = vs[0]
				}
			}
			if id == "" {
				id = generateRequestID(cfg.gen)
			}
			w.Header().Set(DefaultRequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

func generateRequestID(gen RequestIDGenerator) string {
	if s, err := gen(); err == nil && validRequestID(s) {
		return s
	}
	// uuid.Must panics only if crypto/rand fails.
	return uuid.Must(uuid.NewV4()).String()
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxIncomingRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch b := s[i]; {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '.' || b == '_' || b == '-':
		default:
			return false
		}
	}
	return true
}

type requestIDKey struct{}

// WithRequestID returns ctx carrying id. An empty id returns ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request id from ctx.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(requestIDKey{}).(string)
	return v, ok && v != ""
}

// RequestIDFromRequest extracts the request id from r.Context().
func RequestIDFromRequest(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	return RequestIDFromContext(r.Context())
}
