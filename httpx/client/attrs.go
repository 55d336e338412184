package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultMaxResponseBytes bounds every attribute response body.
const DefaultMaxResponseBytes = 64 << 10

// StatusError is a non-2xx answer from the attribute surface.
//
// Kind is the stable prefix of the body ("invalid_value", "unavailable", ...),
// empty if the body did not carry one.
type StatusError struct {
	Code int
	Kind string
	Msg  string
}

func (e *StatusError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("client: http %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("client: http %d: %s: %s", e.Code, e.Kind, e.Msg)
}

// Attrs talks to the file-like attribute endpoints served under base,
// for example "http://127.0.0.1:8080/touchboost_switch".
type Attrs struct {
	hc   *http.Client
	base string
}

// NewAttrs returns an attribute client. A nil hc uses New().
func NewAttrs(base string, hc *http.Client) (*Attrs, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q: scheme must be http or https", base)
	}
	if hc == nil {
		hc = New()
	}
	return &Attrs{hc: hc, base: u.String()}, nil
}

// List returns the attribute names in server order.
func (a *Attrs) List(ctx context.Context) ([]string, error) {
	body, err := a.do(ctx, http.MethodGet, a.base+"/", nil)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(body), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Get returns the rendered value of name, including its trailing newline.
func (a *Attrs) Get(ctx context.Context, name string) (string, error) {
	body, err := a.do(ctx, http.MethodGet, a.attrURL(name), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Set writes payload to name and returns the byte count the server consumed.
func (a *Attrs) Set(ctx context.Context, name string, payload []byte) (int, error) {
	body, err := a.do(ctx, http.MethodPut, a.attrURL(name), payload)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("client: unexpected write response %q", body)
	}
	return n, nil
}

func (a *Attrs) attrURL(name string) string {
	return a.base + "/" + url.PathEscape(name)
}

func (a *Attrs) do(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := ReadAllAndCloseLimit(resp.Body, DefaultMaxResponseBytes)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func statusError(code int, body []byte) *StatusError {
	msg := strings.TrimSpace(string(body))
	kind, rest, ok := strings.Cut(msg, ": ")
	if !ok || kind == "" || strings.ContainsAny(kind, " \t") {
		return &StatusError{Code: code, Msg: msg}
	}
	return &StatusError{Code: code, Kind: kind, Msg: rest}
}
