package touchboost

import (
	"net/http"
	"strings"
)

// mountPrefix routes requests under prefix to subtree with the prefix
// stripped (keeping a leading "/"), and everything else to fallback.
//
// A request for the bare prefix without its trailing slash is redirected
// with 307. Invalid prefixes panic.
func mountPrefix(prefix string, subtree, fallback http.Handler) http.Handler {
	prefix = normalizeMountPrefixOrPanic(prefix)
	base := strings.TrimSuffix(prefix, "/")
	if subtree == nil {
		panic("touchboost: mountPrefix: nil subtree handler")
	}
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case base != "" && path == base:
			target := prefix
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		case strings.HasPrefix(path, prefix):
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/" + strings.TrimPrefix(path, prefix)
			r2.URL.RawPath = ""
			subtree.ServeHTTP(w, r2)
		default:
			fallback.ServeHTTP(w, r)
		}
	})
}

func normalizeMountPrefixOrPanic(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		panic("touchboost: empty mount prefix")
	}
	if !strings.HasPrefix(prefix, "/") {
		panic("touchboost: invalid mount prefix (must start with '/'): " + prefix)
	}
	if strings.ContainsAny(prefix, " \t\r\n?#") || strings.Contains(prefix, "//") {
		panic("touchboost: invalid mount prefix: " + prefix)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
