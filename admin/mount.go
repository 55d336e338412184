package admin

import (
	"net/http"
	"strings"
)

func resolvePath(specPath, def string) string {
	if strings.TrimSpace(specPath) == "" {
		return def
	}
	return specPath
}

func (b *Builder) register(path string, h http.Handler) {
	requireBuilder(b)
	path = normalizePathOrPanic(path)
	if h == nil {
		panic("admin: nil handler for path " + path)
	}
	if _, exists := b.paths[path]; exists {
		panic("admin: duplicated path handler: " + path)
	}
	b.paths[path] = h
}

func normalizePathOrPanic(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		panic("admin: empty path")
	}
	if !strings.HasPrefix(path, "/") {
		panic("admin: invalid path (must start with '/'): " + path)
	}
	if strings.ContainsAny(path, " \t\r\n?#{}") {
		panic("admin: invalid path (contains whitespace, ?# or a pattern): " + path)
	}
	// ServeMux would redirect or clean these.
	if strings.Contains(path, "//") {
		panic("admin: invalid path (contains //): " + path)
	}
	return path
}

// mount wraps h with g and registers it at path. capName only appears in
// panic messages.
func mount(b *Builder, capName, path string, g Guard, h http.Handler) {
	requireBuilder(b)
	requireGuard(g, capName)
	if h == nil {
		panic("admin: " + capName + ": nil handler")
	}
	b.register(path, g.Middleware()(h))
}

func requireBuilder(b *Builder) {
	if b == nil {
		panic("admin: nil builder")
	}
}

func requireGuard(g Guard, capName string) {
	if g == nil {
		panic("admin: " + capName + ": nil Guard")
	}
}
