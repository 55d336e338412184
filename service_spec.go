package touchboost

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

// DefaultAttrPrefix is where the attribute surface is mounted by default.
const DefaultAttrPrefix = "/touchboost_switch/"

// DefaultAdminPrefix is where the admin subtree is mounted by default.
const DefaultAdminPrefix = "/-/"

// ServiceSpec describes a touch boost daemon.
type ServiceSpec struct {
	// Store is required. The service never replaces it.
	Store *boost.Store

	// Logger is used by the gateway, the HTTP middlewares and the lifecycle.
	// nil means slog.Default().
	Logger *slog.Logger

	// LogLevelVar is exposed on the admin subtree when non-nil.
	LogLevelVar *slog.LevelVar

	// Registry receives the attribute metrics. nil creates a private registry
	// with the Go, process and build info collectors.
	Registry *prometheus.Registry

	// Attr configures the attribute surface. Attr.Addr is required.
	Attr AttrServerSpec

	// Admin enables the admin subtree. nil disables it.
	Admin *ServiceAdminSpec

	// Signals controls whether Run listens for OS signals.
	Signals SignalSpec

	// ShutdownTimeout bounds the whole shutdown. <= 0 means 30s.
	ShutdownTimeout time.Duration

	Hooks ServiceHooks
}

// AttrServerSpec configures the attribute HTTP surface.
type AttrServerSpec struct {
	Addr string

	// Prefix is the mount point of the attributes. Default DefaultAttrPrefix.
	Prefix string

	// MaxBodyBytes limits write payloads. <= 0 uses attrhttp.DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Optional makes a failure to bind Addr non-fatal: Start logs it at Error
	// and keeps the remaining servers running (Service.Degraded reports true).
	// It requires a standalone admin server.
	Optional bool
}

// ServiceAdminSpec places the admin subtree.
type ServiceAdminSpec struct {
	// Spec is forwarded to NewDefaultAdmin. Gateway, LogLevelVar, Gatherer
	// and Logger are filled in from the service when nil.
	Spec AdminSpec

	// Addr runs admin on its own listener. Empty mounts it on the attribute
	// server instead.
	Addr string

	// Prefix is the admin mount point. Default DefaultAdminPrefix.
	Prefix string
}

type SignalSpec struct {
	// Disable disables signal handling in Run.
	Disable bool

	// Signals overrides the default set (SIGINT and SIGTERM on Unix,
	// os.Interrupt elsewhere).
	Signals []os.Signal
}

type ServiceHooks struct {
	// OnStart runs sequentially before any server binds. An error fails Start.
	OnStart []func(context.Context) error

	// OnShutdown runs sequentially after the attribute server stopped and
	// before the standalone admin server stops. Errors are joined.
	OnShutdown []func(context.Context) error

	// OnServeError is called when a server exits unexpectedly.
	OnServeError func(name string, err error)
}
