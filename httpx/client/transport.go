package client

import (
	"net/http"

	"github.com/evan-idocoding/touchboost/httpx"
)

// Middleware wraps an http.RoundTripper. The result must be safe for
// concurrent use.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain applies mws to base. A nil base uses a clone of http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = cloneDefaultTransport()
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			base = mws[i](base)
		}
	}
	return base
}

func cloneDefaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok && t != nil {
		return t.Clone()
	}
	return http.DefaultTransport
}

// SetHeader returns a middleware that sets key on every request. An empty key
// is a no-op.
func SetHeader(key, value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if key == "" {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r2 := r.Clone(r.Context())
			r2.Header.Set(key, value)
			return next.RoundTrip(r2)
		})
	}
}

// PropagateRequestID returns a middleware that sets X-Request-ID on every
// request: the id stored in the request context (httpx.WithRequestID) if
// present, a fresh UUIDv4 otherwise. Requests that already carry the header
// are left alone.
func PropagateRequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(httpx.DefaultRequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			id, ok := httpx.RequestIDFromContext(r.Context())
			if !ok {
				var err error
				if id, err = httpx.NewRequestID(); err != nil {
					return nil, err
				}
			}
			r2 := r.Clone(r.Context())
			r2.Header.Set(httpx.DefaultRequestIDHeader, id)
			return next.RoundTrip(r2)
		})
	}
}
