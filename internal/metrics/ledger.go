// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Settlement outcomes.
const (
	OutcomeSettled        = "settled"
	OutcomeAlreadySettled = "already_settled"
	OutcomeRejected       = "rejected"
)

// LedgerMetrics records ledger operation counts, failures and latency.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	duration    *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	expenses    *prometheus.CounterVec
	settlements *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "operation_errors_total",
		Help:      "Failed ledger operations by error kind.",
	}, []string{"op", "kind"})
	expenses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "expenses_recorded_total",
		Help:      "Expenses recorded by split policy.",
	}, []string{"policy"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "settlements_total",
		Help:      "Settlement requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, errors, expenses, settlements)
	return &LedgerMetrics{
		duration:    duration,
		errors:      errors,
		expenses:    expenses,
		settlements: settlements,
	}
}

// ObserveDuration records how long op took.
func (m *LedgerMetrics) ObserveDuration(op string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(d.Seconds())
}

// IncError counts a failed op, classified by kind.
func (m *LedgerMetrics) IncError(op, kind string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(op), normalizeLabel(kind)).Inc()
}

// IncExpense counts a recorded expense.
func (m *LedgerMetrics) IncExpense(policy string) {
	if m == nil || m.expenses == nil {
		return
	}
	m.expenses.WithLabelValues(normalizeLabel(policy)).Inc()
}

// IncSettlement counts a settlement request by outcome.
func (m *LedgerMetrics) IncSettlement(outcome string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
