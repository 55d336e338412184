package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// DefaultTokenHeader is the header TokenGuard reads by default.
const DefaultTokenHeader = "X-Access-Token"

// DenyReason describes why a request was denied. It never contains token material.
type DenyReason string

const (
	DenyReasonTokenMissing    DenyReason = "token-missing"
	DenyReasonTokenAmbiguous  DenyReason = "token-ambiguous"
	DenyReasonTokenSetEmpty   DenyReason = "token-set-empty"
	DenyReasonTokenNotAllowed DenyReason = "token-not-allowed"
)

type tokenGuardConfig struct {
	header string
	onDeny func(r *http.Request, reason DenyReason)
}

// TokenGuardOption configures TokenGuard.
type TokenGuardOption func(*tokenGuardConfig)

// WithTokenHeader overrides the header name. Blank names are ignored.
func WithTokenHeader(name string) TokenGuardOption {
	return func(c *tokenGuardConfig) {
		if name = strings.TrimSpace(name); name != "" {
			c.header = name
		}
	}
}

// WithOnDeny sets a hook called for every denied request. It must be fast.
func WithOnDeny(fn func(r *http.Request, reason DenyReason)) TokenGuardOption {
	return func(c *tokenGuardConfig) { c.onDeny = fn }
}

// TokenGuard returns a middleware that admits requests carrying one of tokens
// in a single header value, and answers 403 otherwise.
//
// Blank tokens are ignored. With no usable token it denies everything.
// Comparison is constant-time per token and scans the whole set.
func TokenGuard(tokens []string, opts ...TokenGuardOption) Middleware {
	cfg := tokenGuardConfig{header: DefaultTokenHeader}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	set := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			set = append(set, []byte(t))
		}
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("httpx: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reason, ok := admitToken(r.Header.Values(cfg.header), set); !ok {
				if cfg.onDeny != nil {
					cfg.onDeny(r, reason)
				}
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func admitToken(values []string, set [][]byte) (DenyReason, bool) {
	if len(set) == 0 {
		return DenyReasonTokenSetEmpty, false
	}
	switch len(values) {
	case 0:
		return DenyReasonTokenMissing, false
	case 1:
	default:
		return DenyReasonTokenAmbiguous, false
	}
	got := []byte(strings.TrimSpace(values[0]))
	if len(got) == 0 {
		return DenyReasonTokenMissing, false
	}
	ok := 0
	for _, t := range set {
		ok |= subtle.ConstantTimeCompare(got, t)
	}
	if ok != 1 {
		return DenyReasonTokenNotAllowed, false
	}
	return "", true
}
