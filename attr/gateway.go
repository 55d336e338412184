package attr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

type attribute struct {
	name   string
	field  boost.Field
	format func(v uint64) string
}

func formatBare(v uint64) string { return strconv.FormatUint(v, 10) + "\n" }

func formatLabeled(label string) func(uint64) string {
	return func(v uint64) string {
		return strconv.FormatUint(v, 10) + " - " + label + "\n"
	}
}

func defaultAttributes() []attribute {
	return []attribute{
		{name: boost.FieldEnabled.String(), field: boost.FieldEnabled, format: formatBare},
		{name: boost.FieldLevel.String(), field: boost.FieldLevel, format: formatLabeled("Touchboost frequency")},
		{name: boost.FieldDurationMs.String(), field: boost.FieldDurationMs, format: formatLabeled("Touchboost impulse length (ms)")},
	}
}

type config struct {
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Gateway.
type Option func(*config)

// WithLogger sets the logger for write outcomes. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics records reads and write outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Gateway exposes a boost.Store as named text attributes.
//
// It is safe for concurrent use; synchronization is delegated to the store.
type Gateway struct {
	st     *boost.Store
	attrs  []attribute
	byName map[string]int

	log     *slog.Logger
	metrics *Metrics
}

// New creates a Gateway over st.
//
// It panics if st is nil (an assembly error).
func New(st *boost.Store, opts ...Option) *Gateway {
	if st == nil {
		panic("attr: nil boost.Store")
	}
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	g := &Gateway{
		st:      st,
		attrs:   defaultAttributes(),
		log:     cfg.logger,
		metrics: cfg.metrics,
	}
	g.byName = make(map[string]int, len(g.attrs))
	for i, a := range g.attrs {
		g.byName[a.name] = i
	}
	return g
}

// Boost returns the underlying store.
func (g *Gateway) Boost() *boost.Store { return g.st }

// Names returns the attribute names in a stable order.
func (g *Gateway) Names() []string {
	out := make([]string, 0, len(g.attrs))
	for _, a := range g.attrs {
		out = append(out, a.name)
	}
	return out
}

func (g *Gateway) lookup(name string) (attribute, error) {
	i, ok := g.byName[name]
	if !ok {
		return attribute{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return g.attrs[i], nil
}

// Show renders the current value of the named attribute.
//
// No validation happens on read.
func (g *Gateway) Show(name string) (string, error) {
	a, err := g.lookup(name)
	if err != nil {
		return "", err
	}
	g.metrics.observeRead(a.name)
	return a.format(g.st.Get(a.field)), nil
}

// Store parses payload and writes it to the named attribute.
//
// It returns len(payload) on success and 0 with the error otherwise. Parse
// failures never reach the store.
func (g *Gateway) Store(name string, payload []byte) (int, error) {
	a, err := g.lookup(name)
	if err != nil {
		return 0, err
	}
	v, err := ParseInt(payload)
	if err != nil {
		g.rejected(a, opStore, payload, err)
		return 0, err
	}
	if err := g.st.Set(a.field, v); err != nil {
		g.rejected(a, opStore, payload, err)
		return 0, err
	}
	g.metrics.observeWrite(a.name, opStore, KindNone)
	g.log.Debug("touchboost: attribute written", "attr", a.name, "value", v)
	return len(payload), nil
}

// Check runs the parse and rule of a write without committing it and returns
// the byte count Store would report. Nothing is logged or counted.
func (g *Gateway) Check(name string, payload []byte) (int, error) {
	a, err := g.lookup(name)
	if err != nil {
		return 0, err
	}
	v, err := ParseInt(payload)
	if err != nil {
		return 0, err
	}
	if err := g.st.Validate(a.field, v); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Reset sets the named attribute back to its default value.
func (g *Gateway) Reset(name string) error {
	a, err := g.lookup(name)
	if err != nil {
		return err
	}
	if err := g.st.ResetToDefault(a.field); err != nil {
		g.rejected(a, opReset, nil, err)
		return err
	}
	g.metrics.observeWrite(a.name, opReset, KindNone)
	g.log.Info("touchboost: attribute reset to default", "attr", a.name, "value", g.st.Get(a.field))
	return nil
}

// Undo restores the value the named attribute had before its last write.
func (g *Gateway) Undo(name string) error {
	a, err := g.lookup(name)
	if err != nil {
		return err
	}
	if err := g.st.ResetToLastValue(a.field); err != nil {
		g.rejected(a, opUndo, nil, err)
		return err
	}
	g.metrics.observeWrite(a.name, opUndo, KindNone)
	g.log.Info("touchboost: attribute restored to last value", "attr", a.name, "value", g.st.Get(a.field))
	return nil
}

// Lookup returns a point-in-time view of the named attribute.
func (g *Gateway) Lookup(name string) (boost.Item, error) {
	a, err := g.lookup(name)
	if err != nil {
		return boost.Item{}, err
	}
	it, _ := g.st.Lookup(a.field)
	return it, nil
}

// Snapshot returns a point-in-time view of all attributes.
func (g *Gateway) Snapshot() boost.Snapshot { return g.st.Snapshot() }

func (g *Gateway) rejected(a attribute, op string, payload []byte, err error) {
	kind := KindOf(err)
	g.metrics.observeWrite(a.name, op, kind)
	level := slog.LevelWarn
	if kind == KindUnavailable {
		level = slog.LevelError
	}
	args := []any{"attr", a.name, "op", op, "kind", string(kind), "err", err}
	if payload != nil {
		args = append(args, "payload", truncate(payload, 32))
	}
	g.log.Log(context.Background(), level, "touchboost: attribute write rejected", args...)
}
