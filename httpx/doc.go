// Package httpx provides the net/http middleware shared by the touch boost
// servers.
//
// A middleware is a plain wrapper:
//
//	type Middleware func(http.Handler) http.Handler
//
// Chain(a, b, c).Handler(h) returns a(b(c(h))). Nil middlewares are ignored;
// a nil endpoint panics.
//
// Built-in middlewares:
//
//   - Recover: turns handler panics into 500 and logs them with slog.
//   - RequestID: reads or generates (UUIDv4) an X-Request-ID and stores it in
//     the request context.
//   - AccessLog: one slog record per request with status, size and duration.
//   - TokenGuard: fail-closed shared-token admission (constant-time compare).
//
// A typical stack:
//
//	base := httpx.Chain(httpx.Recover(), httpx.RequestID(), httpx.AccessLog())
//	root := base.Handler(mux)
package httpx
