package admin

import (
	"log/slog"
	"net/http"

	"github.com/evan-idocoding/touchboost/httpx"
)

// New assembles and returns the admin subtree handler.
//
// Nothing is mounted unless explicitly enabled via options, and every enabled
// capability must have a non-nil Guard.
//
// Assembly errors are fail-fast and will panic.
func New(opts ...Option) http.Handler {
	b := newBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b.build()
}

// Option configures admin assembly.
type Option func(*Builder)

// WithLogger sets the logger used by the subtree's panic recovery and access
// log. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		requireBuilder(b)
		b.logger = l
	}
}

// Builder collects capabilities and builds the final admin handler.
//
// Users configure it only through Options.
type Builder struct {
	logger *slog.Logger

	paths map[string]http.Handler // one capability per path
}

func newBuilder() *Builder {
	return &Builder{
		paths: make(map[string]http.Handler),
	}
}

func (b *Builder) build() http.Handler {
	mux := http.NewServeMux()
	for path, h := range b.paths {
		mux.Handle(path, h)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	return httpx.Chain(
		httpx.Recover(httpx.WithRecoverLogger(logger)),
		httpx.RequestID(),
		httpx.AccessLog(httpx.WithAccessLogger(logger)),
	).Handler(mux)
}
