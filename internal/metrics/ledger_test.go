package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLedgerMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.IncExpense("equal")
	m.IncExpense("equal")
	m.IncExpense("exact")
	m.IncSettlement(OutcomeSettled)
	m.IncSettlement(OutcomeAlreadySettled)
	m.IncError("settle_split", "unauthorized")
	m.IncError("", "")

	if got := testutil.ToFloat64(m.expenses.WithLabelValues("equal")); got != 2 {
		t.Errorf("expected equal expenses=2, got %f", got)
	}
	if got := testutil.ToFloat64(m.settlements.WithLabelValues(OutcomeAlreadySettled)); got != 1 {
		t.Errorf("expected already_settled=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues("unknown", "unknown")); got != 1 {
		t.Errorf("expected empty labels to normalize, got %f", got)
	}

	expected := `
# HELP ledger_operation_errors_total Failed ledger operations by error kind.
# TYPE ledger_operation_errors_total counter
ledger_operation_errors_total{kind="unauthorized",op="settle_split"} 1
ledger_operation_errors_total{kind="unknown",op="unknown"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "ledger_operation_errors_total"); err != nil {
		t.Errorf("unexpected errors metric: %v", err)
	}
}

func TestLedgerMetricsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)
	m.ObserveDuration("create_expense", 250*time.Millisecond)

	if got := testutil.CollectAndCount(m.duration, "ledger_operation_duration_seconds"); got != 1 {
		t.Errorf("expected one histogram series, got %d", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var m *LedgerMetrics
	m.ObserveDuration("op", time.Second)
	m.IncError("op", "kind")
	m.IncExpense("equal")
	m.IncSettlement(OutcomeSettled)

	unregistered := NewLedgerMetrics(nil)
	unregistered.IncExpense("equal")
}
