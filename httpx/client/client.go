// Package client builds HTTP clients for talking to a running touch boost
// daemon and wraps its attribute surface.
//
// New never mutates http.DefaultClient or http.DefaultTransport. RoundTripper
// middlewares compose like server middlewares: Chain(base, a, b) returns
// a(b(base)).
package client

import (
	"net/http"
	"time"
)

type config struct {
	timeout      time.Duration
	roundTripper http.RoundTripper
	middlewares  []Middleware
}

// Option configures New.
type Option func(*config)

// WithTimeout sets http.Client.Timeout. Default is 0 (no client-level timeout).
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithRoundTripper sets the base RoundTripper. Default is a clone of
// http.DefaultTransport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *config) { c.roundTripper = rt }
}

// WithMiddlewares appends RoundTripper middlewares.
func WithMiddlewares(mws ...Middleware) Option {
	return func(c *config) { c.middlewares = append(c.middlewares, mws...) }
}

// New builds an *http.Client with an independent transport.
func New(opts ...Option) *http.Client {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &http.Client{
		Transport: Chain(cfg.roundTripper, cfg.middlewares...),
		Timeout:   cfg.timeout,
	}
}
