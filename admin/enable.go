package admin

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/ops"
)

// --- health / ready ---

type HealthzSpec struct {
	Guard Guard
	Path  string // default "/healthz"
}

func EnableHealthz(spec HealthzSpec) Option {
	return func(b *Builder) {
		mount(b, "healthz", resolvePath(spec.Path, "/healthz"), spec.Guard, ops.HealthzHandler())
	}
}

type ReadyzSpec struct {
	Guard  Guard
	Path   string // default "/readyz"
	Checks []ops.ReadyCheck
}

// EnableReadyz mounts a readiness report over spec.Checks. A check with an
// empty Name or nil Func panics.
func EnableReadyz(spec ReadyzSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "readyz")
		mount(b, "readyz", resolvePath(spec.Path, "/readyz"), spec.Guard, ops.ReadyzHandler(spec.Checks))
	}
}

// --- log level ---

type LogLevelGetSpec struct {
	Guard Guard
	Path  string // default "/log/level"
	Var   *slog.LevelVar
}

func EnableLogLevelGet(spec LogLevelGetSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "log.level.get")
		if spec.Var == nil {
			panic("admin: log.level.get: nil slog.LevelVar")
		}
		mount(b, "log.level.get", resolvePath(spec.Path, "/log/level"), spec.Guard, ops.LogLevelGetHandler(spec.Var))
	}
}

type LogLevelSetSpec struct {
	Guard Guard
	Path  string // default "/log/level/set"
	Var   *slog.LevelVar
}

func EnableLogLevelSet(spec LogLevelSetSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "log.level.set")
		if spec.Var == nil {
			panic("admin: log.level.set: nil slog.LevelVar")
		}
		mount(b, "log.level.set", resolvePath(spec.Path, "/log/level/set"), spec.Guard, ops.LogLevelSetHandler(spec.Var))
	}
}

// --- attributes ---

// AttrAccessSpec filters attribute names.
//
// For reads an empty spec allows every attribute. For writes an empty spec
// denies every attribute. AllowFunc is exclusive with the lists.
type AttrAccessSpec struct {
	AllowPrefixes []string
	AllowNames    []string
	AllowFunc     func(name string) bool
}

type AttrsSnapshotSpec struct {
	Guard   Guard
	Path    string // default "/attrs/snapshot"
	Gateway *attr.Gateway
	Access  AttrAccessSpec
}

func EnableAttrsSnapshot(spec AttrsSnapshotSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "attrs.snapshot")
		requireGateway(spec.Gateway, "attrs.snapshot")
		h := ops.AttrsSnapshotHandler(spec.Gateway, attrReadOptionsOrPanic(spec.Access)...)
		mount(b, "attrs.snapshot", resolvePath(spec.Path, "/attrs/snapshot"), spec.Guard, h)
	}
}

type AttrShowSpec struct {
	Guard   Guard
	Path    string // default "/attrs/show"
	Gateway *attr.Gateway
	Access  AttrAccessSpec
}

func EnableAttrShow(spec AttrShowSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "attrs.show")
		requireGateway(spec.Gateway, "attrs.show")
		h := ops.AttrShowHandler(spec.Gateway, attrReadOptionsOrPanic(spec.Access)...)
		mount(b, "attrs.show", resolvePath(spec.Path, "/attrs/show"), spec.Guard, h)
	}
}

type AttrStoreSpec struct {
	Guard   Guard
	Path    string // default "/attrs/store"
	Gateway *attr.Gateway
	Access  AttrAccessSpec // required allowlist; empty => deny-all
}

func EnableAttrStore(spec AttrStoreSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "attrs.store")
		requireGateway(spec.Gateway, "attrs.store")
		h := ops.AttrStoreHandler(spec.Gateway, attrWriteOptionsOrPanic(spec.Access)...)
		mount(b, "attrs.store", resolvePath(spec.Path, "/attrs/store"), spec.Guard, h)
	}
}

type AttrResetDefaultSpec struct {
	Guard   Guard
	Path    string // default "/attrs/reset-default"
	Gateway *attr.Gateway
	Access  AttrAccessSpec // required allowlist; empty => deny-all
}

func EnableAttrResetDefault(spec AttrResetDefaultSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "attrs.reset_default")
		requireGateway(spec.Gateway, "attrs.reset_default")
		h := ops.AttrResetDefaultHandler(spec.Gateway, attrWriteOptionsOrPanic(spec.Access)...)
		mount(b, "attrs.reset_default", resolvePath(spec.Path, "/attrs/reset-default"), spec.Guard, h)
	}
}

type AttrResetLastSpec struct {
	Guard   Guard
	Path    string // default "/attrs/reset-last"
	Gateway *attr.Gateway
	Access  AttrAccessSpec // required allowlist; empty => deny-all
}

func EnableAttrResetLast(spec AttrResetLastSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "attrs.reset_last")
		requireGateway(spec.Gateway, "attrs.reset_last")
		h := ops.AttrResetLastHandler(spec.Gateway, attrWriteOptionsOrPanic(spec.Access)...)
		mount(b, "attrs.reset_last", resolvePath(spec.Path, "/attrs/reset-last"), spec.Guard, h)
	}
}

// --- metrics ---

type MetricsSpec struct {
	Guard    Guard
	Path     string // default "/metrics"
	Gatherer prometheus.Gatherer
}

// EnableMetrics serves spec.Gatherer in the Prometheus exposition format.
func EnableMetrics(spec MetricsSpec) Option {
	return func(b *Builder) {
		requireGuard(spec.Guard, "metrics")
		if spec.Gatherer == nil {
			panic("admin: metrics: nil prometheus.Gatherer")
		}
		h := promhttp.HandlerFor(spec.Gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		})
		mount(b, "metrics", resolvePath(spec.Path, "/metrics"), spec.Guard, h)
	}
}

// --- helpers ---

func requireGateway(g *attr.Gateway, capName string) {
	if g == nil {
		panic("admin: " + capName + ": nil attr.Gateway")
	}
}

func attrReadOptionsOrPanic(a AttrAccessSpec) []ops.AttrOption {
	fn := attrAccessFuncOrPanic(a)
	if fn == nil {
		return nil
	}
	return []ops.AttrOption{ops.WithAttrNameGuard(fn)}
}

func attrWriteOptionsOrPanic(a AttrAccessSpec) []ops.AttrOption {
	fn := attrAccessFuncOrPanic(a)
	if fn == nil {
		fn = func(string) bool { return false }
	}
	return []ops.AttrOption{ops.WithAttrNameGuard(fn)}
}

// attrAccessFuncOrPanic returns nil when a specifies nothing. A list that was
// given but holds only blanks denies everything.
func attrAccessFuncOrPanic(a AttrAccessSpec) func(name string) bool {
	if a.AllowFunc != nil {
		if len(a.AllowPrefixes) != 0 || len(a.AllowNames) != 0 {
			panic("admin: attr access: AllowFunc conflicts with AllowPrefixes/AllowNames")
		}
		return a.AllowFunc
	}
	prefixes, prefixesSpecified := trimNonEmpty(a.AllowPrefixes)
	names, namesSpecified := trimNonEmpty(a.AllowNames)
	if (prefixesSpecified && len(prefixes) == 0) || (namesSpecified && len(names) == 0) {
		return func(string) bool { return false }
	}
	if len(prefixes) == 0 && len(names) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name string) bool {
		if name == "" {
			return false
		}
		if _, ok := set[name]; ok {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}

func trimNonEmpty(in []string) (out []string, specified bool) {
	if len(in) == 0 {
		return nil, false
	}
	out = make([]string, 0, len(in))
	for _, raw := range in {
		if s := strings.TrimSpace(raw); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}
