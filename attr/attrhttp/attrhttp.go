// Package attrhttp serves an attr.Gateway as file-like HTTP endpoints.
//
//	GET      /          attribute names, one per line
//	GET      /{name}    current value as rendered by Gateway.Show
//	PUT|POST /{name}    request body is the write payload; responds "<n>\n"
//
// Failures are plain text "<kind>: <message>\n" with a status derived from
// attr.KindOf. The handler is usually mounted under a prefix, for example
// "/touchboost_switch".
package attrhttp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evan-idocoding/touchboost/attr"
)

// DefaultMaxBodyBytes limits write payloads.
const DefaultMaxBodyBytes = 4 << 10

type config struct {
	maxBodyBytes int64
}

// Option configures NewHandler.
type Option func(*config)

// WithMaxBodyBytes sets the write payload limit. Values <= 0 use DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) { c.maxBodyBytes = n }
}

// NewHandler returns a chi router serving g.
//
// It panics if g is nil.
func NewHandler(g *attr.Gateway, opts ...Option) http.Handler {
	if g == nil {
		panic("attrhttp: nil gateway")
	}
	cfg := config{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxBodyBytes <= 0 {
		cfg.maxBodyBytes = DefaultMaxBodyBytes
	}

	h := &handler{g: g, maxBodyBytes: cfg.maxBodyBytes}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, attr.KindNotFound, "no such attribute")
	})
	r.Get("/", h.list)
	r.Get("/{name}", h.show)
	r.Put("/{name}", h.store)
	r.Post("/{name}", h.store)
	return r
}

type handler struct {
	g            *attr.Gateway
	maxBodyBytes int64
}

func (h *handler) list(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, strings.Join(h.g.Names(), "\n")+"\n")
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	s, err := h.g.Show(chi.URLParam(r, "name"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeText(w, http.StatusOK, s)
}

func (h *handler) store(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, attr.KindMalformedInput,
				"payload exceeds "+strconv.FormatInt(mbe.Limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, attr.KindMalformedInput, "read body: "+err.Error())
		return
	}
	n, err := h.g.Store(chi.URLParam(r, "name"), body)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeText(w, http.StatusOK, strconv.Itoa(n)+"\n")
}

// StatusOf maps a gateway error to an HTTP status code.
func StatusOf(err error) int {
	switch attr.KindOf(err) {
	case attr.KindNone:
		return http.StatusOK
	case attr.KindMalformedInput, attr.KindInvalidValue:
		return http.StatusBadRequest
	case attr.KindUnavailable:
		return http.StatusServiceUnavailable
	case attr.KindNotFound:
		return http.StatusNotFound
	case attr.KindNoLastValue:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeGatewayError(w http.ResponseWriter, err error) {
	kind := attr.KindOf(err)
	msg := err.Error()
	if kind == attr.KindInternal {
		msg = "internal error"
	}
	writeError(w, StatusOf(err), kind, msg)
}

func writeError(w http.ResponseWriter, code int, kind attr.Kind, msg string) {
	writeText(w, code, string(kind)+": "+msg+"\n")
}

func writeText(w http.ResponseWriter, code int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, s)
}
