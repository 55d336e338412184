package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/evan-idocoding/touchboost/httpx"
)

func TestNew_DoesNotShareDefaultTransport(t *testing.T) {
	c := New(WithTimeout(3 * time.Second))
	if c.Timeout != 3*time.Second {
		t.Fatalf("timeout=%v", c.Timeout)
	}
	if c.Transport == http.DefaultTransport {
		t.Fatalf("transport must be a clone")
	}
}

func TestChain_Order(t *testing.T) {
	var got []string
	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				got = append(got, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = append(got, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	rt := Chain(base, mw("a"), nil, mw("b"))
	req, _ := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if strings.Join(got, ",") != "a,b,base" {
		t.Fatalf("order=%v", got)
	}
}

func TestSetHeader_DoesNotMutateCallerRequest(t *testing.T) {
	var seen string
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get("X-Test")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
	req, _ := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	if _, err := Chain(base, SetHeader("X-Test", "v")).RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if seen != "v" || req.Header.Get("X-Test") != "" {
		t.Fatalf("seen=%q caller=%q", seen, req.Header.Get("X-Test"))
	}
}

func TestPropagateRequestID(t *testing.T) {
	var seen []string
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.Header.Get(httpx.DefaultRequestIDHeader))
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
	rt := Chain(base, PropagateRequestID())

	fromCtx, _ := http.NewRequestWithContext(httpx.WithRequestID(context.Background(), "rid-9"), http.MethodGet, "http://example.test/", nil)
	explicit, _ := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	explicit.Header.Set(httpx.DefaultRequestIDHeader, "mine")
	fresh, _ := http.NewRequest(http.MethodGet, "http://example.test/", nil)

	for _, r := range []*http.Request{fromCtx, explicit, fresh} {
		if _, err := rt.RoundTrip(r); err != nil {
			t.Fatalf("RoundTrip: %v", err)
		}
	}
	if seen[0] != "rid-9" || seen[1] != "mine" {
		t.Fatalf("seen=%v", seen)
	}
	if _, err := uuid.FromString(seen[2]); err != nil {
		t.Fatalf("generated id %q: %v", seen[2], err)
	}
}

func TestPropagateRequestID_EndToEnd(t *testing.T) {
	var got string
	srv := httptest.NewServer(httpx.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = httpx.RequestIDFromRequest(r)
	}), httpx.RequestID()))
	defer srv.Close()

	c := New(WithMiddlewares(PropagateRequestID()))
	req, _ := http.NewRequestWithContext(httpx.WithRequestID(context.Background(), "abc.1"), http.MethodGet, srv.URL, nil)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_, _ = ReadAllAndCloseLimit(resp.Body, 1<<10)
	if got != "abc.1" {
		t.Fatalf("server saw %q", got)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error { c.closed = true; return nil }

func TestReadAllAndCloseLimit(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("12345")}
	b, err := ReadAllAndCloseLimit(body, 5)
	if err != nil || string(b) != "12345" || !body.closed {
		t.Fatalf("b=%q err=%v closed=%v", b, err, body.closed)
	}

	body = &closeTracker{Reader: strings.NewReader("123456")}
	if _, err := ReadAllAndCloseLimit(body, 5); !errors.Is(err, ErrBodyTooLarge) || !body.closed {
		t.Fatalf("err=%v closed=%v", err, body.closed)
	}

	if b, err := ReadAllAndCloseLimit(nil, 5); b != nil || err != nil {
		t.Fatalf("nil body: b=%q err=%v", b, err)
	}
}
