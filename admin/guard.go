package admin

import (
	"net/http"

	"github.com/evan-idocoding/touchboost/httpx"
)

// Guard enforces request admission for a capability.
//
// Implementations must be fast and must not block or do I/O.
type Guard interface {
	// Middleware returns a net/http middleware that enforces this guard.
	//
	// Denied requests must respond with HTTP 403.
	Middleware() func(http.Handler) http.Handler
}

type guardFunc struct{ mw httpx.Middleware }

func (g guardFunc) Middleware() func(http.Handler) http.Handler {
	if g.mw == nil {
		return DenyAll().Middleware()
	}
	return g.mw
}

// DenyAll returns a guard that denies all requests with HTTP 403.
func DenyAll() Guard {
	return guardFunc{mw: func(next http.Handler) http.Handler {
		if next == nil {
			panic("admin: DenyAll: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}}
}

// AllowAll returns a guard that allows all requests.
func AllowAll() Guard {
	return guardFunc{mw: func(next http.Handler) http.Handler {
		if next == nil {
			panic("admin: AllowAll: nil next handler")
		}
		return next
	}}
}

// DefaultTokenHeader is the header token guards read when not overridden.
const DefaultTokenHeader = httpx.DefaultTokenHeader

// TokenOption configures Tokens.
type TokenOption = httpx.TokenGuardOption

// WithTokenHeader overrides the token header name. Blank names are ignored.
func WithTokenHeader(name string) TokenOption { return httpx.WithTokenHeader(name) }

// WithOnDeny sets a hook called for every request a token guard denies.
func WithOnDeny(fn func(r *http.Request, reason httpx.DenyReason)) TokenOption {
	return httpx.WithOnDeny(fn)
}

// Tokens returns a guard that validates requests against a static token list.
//
// nil, empty or all-blank tokens deny everything.
func Tokens(tokens []string, opts ...TokenOption) Guard {
	return guardFunc{mw: httpx.TokenGuard(tokens, opts...)}
}

// Check returns a guard backed by a custom fast predicate.
//
// fn == nil is an assembly error and will panic.
func Check(fn func(r *http.Request) bool) Guard {
	if fn == nil {
		panic("admin: Check: nil func")
	}
	return guardFunc{mw: func(next http.Handler) http.Handler {
		if next == nil {
			panic("admin: Check: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !fn(r) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}}
}
