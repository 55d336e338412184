package touchboost

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/evan-idocoding/touchboost/admin"
	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/ops"
)

// AdminSpec configures NewDefaultAdmin.
//
// Assembly errors are fail-fast and will panic.
type AdminSpec struct {
	// ReadGuard is required. It protects all read endpoints.
	ReadGuard Guard

	// Gateway is required. It backs the /attrs endpoints and the level_source
	// readiness check.
	Gateway *attr.Gateway

	// ReadyChecks are added after the built-in level_source check.
	ReadyChecks []ops.ReadyCheck

	// LogLevelVar enables /log/level when non-nil.
	LogLevelVar *slog.LevelVar

	// Gatherer enables /metrics when non-nil.
	Gatherer prometheus.Gatherer

	// Logger is used by the subtree middlewares. nil means slog.Default().
	Logger *slog.Logger

	// Writes controls write endpoints. nil disables all writes (default).
	Writes *AdminWriteSpec
}

// AdminWriteSpec enables the write endpoints.
type AdminWriteSpec struct {
	// Guard is required when Writes != nil.
	Guard Guard

	// AllowNames lists the attributes the write endpoints may change. Empty
	// denies every attribute.
	AllowNames []string

	// EnableLogLevelSet enables /log/level/set (requires LogLevelVar).
	EnableLogLevelSet bool
}

// NewDefaultAdmin assembles the default admin subtree:
//
//	/healthz /readyz /attrs/snapshot /attrs/show
//	/log/level      (LogLevelVar != nil)
//	/metrics        (Gatherer != nil)
//	/attrs/store /attrs/reset-default /attrs/reset-last   (Writes != nil)
//	/log/level/set  (Writes.EnableLogLevelSet)
//
// For other paths or combinations use admin.New directly.
func NewDefaultAdmin(spec AdminSpec) http.Handler {
	if spec.ReadGuard == nil {
		panic("touchboost: NewDefaultAdmin: nil ReadGuard")
	}
	if spec.Gateway == nil {
		panic("touchboost: NewDefaultAdmin: nil Gateway")
	}
	gw, read := spec.Gateway, spec.ReadGuard

	checks := append([]ops.ReadyCheck{ops.LevelSourceCheck(gw.Boost())}, spec.ReadyChecks...)
	opts := []admin.Option{
		admin.WithLogger(spec.Logger),
		admin.EnableHealthz(admin.HealthzSpec{Guard: read}),
		admin.EnableReadyz(admin.ReadyzSpec{Guard: read, Checks: checks}),
		admin.EnableAttrsSnapshot(admin.AttrsSnapshotSpec{Guard: read, Gateway: gw}),
		admin.EnableAttrShow(admin.AttrShowSpec{Guard: read, Gateway: gw}),
	}
	if spec.LogLevelVar != nil {
		opts = append(opts, admin.EnableLogLevelGet(admin.LogLevelGetSpec{Guard: read, Var: spec.LogLevelVar}))
	}
	if spec.Gatherer != nil {
		opts = append(opts, admin.EnableMetrics(admin.MetricsSpec{Guard: read, Gatherer: spec.Gatherer}))
	}

	if w := spec.Writes; w != nil {
		if w.Guard == nil {
			panic("touchboost: NewDefaultAdmin: Writes != nil but Writes.Guard is nil")
		}
		access := admin.AttrAccessSpec{AllowNames: w.AllowNames}
		opts = append(opts,
			admin.EnableAttrStore(admin.AttrStoreSpec{Guard: w.Guard, Gateway: gw, Access: access}),
			admin.EnableAttrResetDefault(admin.AttrResetDefaultSpec{Guard: w.Guard, Gateway: gw, Access: access}),
			admin.EnableAttrResetLast(admin.AttrResetLastSpec{Guard: w.Guard, Gateway: gw, Access: access}),
		)
		if w.EnableLogLevelSet {
			if spec.LogLevelVar == nil {
				panic("touchboost: NewDefaultAdmin: EnableLogLevelSet requires LogLevelVar")
			}
			opts = append(opts, admin.EnableLogLevelSet(admin.LogLevelSetSpec{Guard: w.Guard, Var: spec.LogLevelVar}))
		}
	}
	return admin.New(opts...)
}
