package ops

import (
	"net/http"
	"strconv"
	"time"

	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/attr/attrhttp"
	"github.com/evan-idocoding/touchboost/rt/boost"
)

type attrConfig struct {
	format Format
	guards []func(name string) bool
}

// AttrOption configures attribute handlers.
type AttrOption func(*attrConfig)

// WithAttrDefaultFormat sets the default response format for attribute handlers.
//
// Default is FormatText; ?format= overrides it per request.
func WithAttrDefaultFormat(f Format) AttrOption {
	return func(c *attrConfig) { c.format = f }
}

// WithAttrNameGuard appends a name guard. Guards are combined with AND and
// apply to read and write handlers alike.
func WithAttrNameGuard(fn func(name string) bool) AttrOption {
	return func(c *attrConfig) {
		if fn != nil {
			c.guards = append(c.guards, fn)
		}
	}
}

// WithAttrAllowNames restricts handlers to the given attribute names.
//
// With no non-empty name it denies everything.
func WithAttrAllowNames(names ...string) AttrOption {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return WithAttrNameGuard(func(name string) bool {
		_, ok := set[name]
		return ok
	})
}

func applyAttrOptions(opts []AttrOption) attrConfig {
	cfg := attrConfig{format: FormatText}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.format = normalizeFormat(cfg.format)
	return cfg
}

func (c attrConfig) allowed(name string) bool {
	for _, g := range c.guards {
		if !g(name) {
			return false
		}
	}
	return true
}

type attrsSnapshotResponse struct {
	baseReply
	Attrs *boost.Snapshot `json:"attrs,omitempty"`
}

func (r attrsSnapshotResponse) text() string {
	lw := lineWriter{section: "attr"}
	if r.Attrs != nil {
		for _, it := range r.Attrs.Items {
			appendItemLines(&lw, "", it)
		}
	}
	return lw.String()
}

type attrShowResponse struct {
	baseReply
	Item *boost.Item `json:"item,omitempty"`
}

func (r attrShowResponse) text() string {
	lw := lineWriter{section: "attr"}
	if r.Item != nil {
		appendItemLines(&lw, "", *r.Item)
	}
	return lw.String()
}

type attrWriteResponse struct {
	baseReply
	Kind     attr.Kind   `json:"kind,omitempty"`
	Name     string      `json:"name,omitempty"`
	Consumed int         `json:"consumed,omitempty"`
	Old      *boost.Item `json:"old,omitempty"`
	New      *boost.Item `json:"new,omitempty"`
}

func (r attrWriteResponse) text() string {
	lw := lineWriter{section: "attr"}
	if r.Old != nil {
		appendItemLines(&lw, "old.", *r.Old)
	}
	if r.New != nil {
		appendItemLines(&lw, "new.", *r.New)
	}
	return lw.String()
}

func appendItemLines(lw *lineWriter, ns string, it boost.Item) {
	lw.line(it.Name, ns+"value", strconv.FormatUint(it.Value, 10))
	lw.line(it.Name, ns+"default", strconv.FormatUint(it.DefaultValue, 10))
	lw.line(it.Name, ns+"source", it.Source.String())
	if !it.LastUpdatedAt.IsZero() {
		lw.line(it.Name, ns+"last_updated_at", it.LastUpdatedAt.Format(time.RFC3339Nano))
	}
	if ns != "" {
		return
	}
	if c := it.Constraints; c.Min != nil {
		lw.line(it.Name, "min", strconv.FormatUint(*c.Min, 10))
	}
	if c := it.Constraints; c.Max != nil {
		lw.line(it.Name, "max", strconv.FormatUint(*c.Max, 10))
	}
	if it.Constraints.LegalLevels {
		lw.line(it.Name, "rule", "legal_levels")
	}
}

// AttrsSnapshotHandler returns a handler that outputs every attribute the
// guards allow. GET/HEAD only.
func AttrsSnapshotHandler(g *attr.Gateway, opts ...AttrOption) http.Handler {
	if g == nil {
		panic("ops: nil attr.Gateway")
	}
	cfg := applyAttrOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowRead(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, attrsSnapshotResponse{baseReply: failed("method not allowed")})
			return
		}
		snap := g.Snapshot()
		items := snap.Items[:0]
		for _, it := range snap.Items {
			if cfg.allowed(it.Name) {
				items = append(items, it)
			}
		}
		snap.Items = items
		write(w, r, format, http.StatusOK, attrsSnapshotResponse{baseReply: baseReply{OK: true}, Attrs: &snap})
	})
}

// AttrShowHandler returns a handler that looks up one attribute.
//
// Input: GET/HEAD, ?name=<attribute>.
func AttrShowHandler(g *attr.Gateway, opts ...AttrOption) http.Handler {
	if g == nil {
		panic("ops: nil attr.Gateway")
	}
	cfg := applyAttrOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowRead(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, attrShowResponse{baseReply: failed("method not allowed")})
			return
		}
		name, ok := queryValue(r, "name")
		if !ok || name == "" {
			write(w, r, format, http.StatusBadRequest, attrShowResponse{baseReply: failed("missing name")})
			return
		}
		if !cfg.allowed(name) {
			write(w, r, format, http.StatusForbidden, attrShowResponse{baseReply: failed("attribute not allowed")})
			return
		}
		it, err := g.Lookup(name)
		if err != nil {
			write(w, r, format, attrhttp.StatusOf(err), attrShowResponse{baseReply: failed(err.Error())})
			return
		}
		write(w, r, format, http.StatusOK, attrShowResponse{baseReply: baseReply{OK: true}, Item: &it})
	})
}

// AttrStoreHandler returns a handler that writes one attribute through the
// gateway, so parse and rule failures are reported exactly as on the
// attribute surface.
//
// Input: POST, ?name=<attribute>&value=<payload>[&dry_run=1]. With dry_run
// the write is checked but not committed, and new equals old.
func AttrStoreHandler(g *attr.Gateway, opts ...AttrOption) http.Handler {
	if g == nil {
		panic("ops: nil attr.Gateway")
	}
	cfg := applyAttrOptions(opts)
	store := attrWriteHandler(g, cfg, true, func(name string, value string) (int, error) {
		return g.Store(name, []byte(value))
	})
	check := attrWriteHandler(g, cfg, true, func(name string, value string) (int, error) {
		return g.Check(name, []byte(value))
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v, _ := queryValue(r, "dry_run"); v == "1" || v == "true" {
			check.ServeHTTP(w, r)
			return
		}
		store.ServeHTTP(w, r)
	})
}

// AttrResetDefaultHandler returns a handler that resets one attribute to its default.
//
// Input: POST, ?name=<attribute>.
func AttrResetDefaultHandler(g *attr.Gateway, opts ...AttrOption) http.Handler {
	if g == nil {
		panic("ops: nil attr.Gateway")
	}
	return attrWriteHandler(g, applyAttrOptions(opts), false, func(name string, _ string) (int, error) {
		return 0, g.Reset(name)
	})
}

// AttrResetLastHandler returns a handler that undoes the last write of one attribute.
//
// Input: POST, ?name=<attribute>. 409 if there is nothing to undo.
func AttrResetLastHandler(g *attr.Gateway, opts ...AttrOption) http.Handler {
	if g == nil {
		panic("ops: nil attr.Gateway")
	}
	return attrWriteHandler(g, applyAttrOptions(opts), false, func(name string, _ string) (int, error) {
		return 0, g.Undo(name)
	})
}

func attrWriteHandler(g *attr.Gateway, cfg attrConfig, needValue bool, apply func(name, value string) (int, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowWrite(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, attrWriteResponse{baseReply: failed("method not allowed")})
			return
		}
		name, ok := queryValue(r, "name")
		if !ok || name == "" {
			write(w, r, format, http.StatusBadRequest, attrWriteResponse{baseReply: failed("missing name")})
			return
		}
		if !cfg.allowed(name) {
			write(w, r, format, http.StatusForbidden, attrWriteResponse{baseReply: failed("attribute not allowed")})
			return
		}
		value, hasValue := queryValue(r, "value")
		if needValue && !hasValue {
			write(w, r, format, http.StatusBadRequest, attrWriteResponse{baseReply: failed("missing value")})
			return
		}

		old, err := g.Lookup(name)
		if err != nil {
			write(w, r, format, attrhttp.StatusOf(err), attrWriteResponse{
				baseReply: failed(err.Error()),
				Kind:      attr.KindOf(err),
				Name:      name,
			})
			return
		}
		n, err := apply(name, value)
		if err != nil {
			write(w, r, format, attrhttp.StatusOf(err), attrWriteResponse{
				baseReply: failed(err.Error()),
				Kind:      attr.KindOf(err),
				Name:      name,
				Old:       &old,
			})
			return
		}
		newIt, _ := g.Lookup(name)
		write(w, r, format, http.StatusOK, attrWriteResponse{
			baseReply: baseReply{OK: true},
			Name:      name,
			Consumed:  n,
			Old:       &old,
			New:       &newIt,
		})
	})
}
