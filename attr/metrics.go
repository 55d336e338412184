package attr

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

// Metrics holds the Prometheus collectors for attribute traffic.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	writes *prometheus.CounterVec
	reads  *prometheus.CounterVec
}

// NewMetrics creates the attribute collectors and registers them on reg.
//
// Besides the traffic counters it registers one gauge per field with the
// current value and a gauge with the size of the legal-level set (-1 while the
// set is unavailable). If reg is nil nothing is registered.
func NewMetrics(reg prometheus.Registerer, st *boost.Store) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "touchboost",
			Name:      "attr_writes_total",
			Help:      "Attribute writes by attribute, operation (store, reset, undo) and result.",
		}, []string{"attr", "op", "result"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "touchboost",
			Name:      "attr_reads_total",
			Help:      "Attribute reads by attribute.",
		}, []string{"attr"}),
	}
	if reg == nil {
		return m
	}
	reg.MustRegister(m.writes, m.reads)
	if st == nil {
		return m
	}

	for _, f := range boost.Fields() {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "touchboost",
			Name:        "attr_value",
			Help:        "Current attribute value.",
			ConstLabels: prometheus.Labels{"attr": f.String()},
		}, func() float64 { return float64(st.Get(f)) }))
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "touchboost",
		Name:      "legal_levels",
		Help:      "Number of legal boost levels reported by the level source, -1 if unavailable.",
	}, func() float64 {
		levels, err := st.LegalLevels()
		if err != nil {
			return -1
		}
		return float64(len(levels))
	}))
	return m
}

func (m *Metrics) observeRead(name string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(name).Inc()
}

// Write operations, used as the op label.
const (
	opStore = "store"
	opReset = "reset"
	opUndo  = "undo"
)

func (m *Metrics) observeWrite(name, op string, kind Kind) {
	if m == nil {
		return
	}
	result := string(kind)
	if kind == KindNone {
		result = "ok"
	}
	m.writes.WithLabelValues(name, op, result).Inc()
}
