package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons
const (
	DropNoUnitOfWork = "no_unit_of_work"
	DropFault        = "fault"
)

// Metrics counts what the pipeline emits, drops and writes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	emitted       *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	written       prometheus.Counter
	writeFailures prometheus.Counter
}

// NewMetrics registers the audit counters with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_audit_intents_emitted_total",
			Help: "Audit intents registered with a unit of work.",
		}, []string{"action"}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_audit_intents_dropped_total",
			Help: "Audit intents that were never registered.",
		}, []string{"reason"}),
		written: f.NewCounter(prometheus.CounterOpts{
			Name: "hms_audit_records_written_total",
			Help: "Audit records persisted.",
		}),
		writeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hms_audit_write_failures_total",
			Help: "Audit records that failed to persist.",
		}),
	}
}

func (m *Metrics) incEmitted(action Action) {
	if m != nil {
		m.emitted.WithLabelValues(string(action)).Inc()
	}
}

func (m *Metrics) incDropped(reason string) {
	if m != nil {
		m.dropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) incWritten() {
	if m != nil {
		m.written.Inc()
	}
}

func (m *Metrics) incWriteFailures() {
	if m != nil {
		m.writeFailures.Inc()
	}
}
