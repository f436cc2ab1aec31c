package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

var testNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	svc     *Service
	store   *sqlite.SQLiteStore
	reg     *prometheus.Registry
	metrics *metrics.LedgerMetrics
	clock   *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &fakeClock{t: testNow}
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"), sqlite.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)
	return &testEnv{
		svc:     NewService(store, WithMetrics(m), WithClock(clock.Now), WithRecentLimit(5)),
		store:   store,
		reg:     reg,
		metrics: m,
		clock:   clock,
	}
}

// group creates a group owned by members[0] and joins the others.
func (e *testEnv) group(t *testing.T, name string, members ...string) *models.Group {
	t.Helper()
	ctx := context.Background()

	g, err := e.svc.CreateGroup(ctx, CreateGroupInput{Name: name, CreatorID: members[0]})
	require.NoError(t, err)
	for _, m := range members[1:] {
		_, err := e.svc.JoinGroup(ctx, g.ID, m)
		require.NoError(t, err)
	}
	return g
}

func (e *testEnv) expense(t *testing.T, groupID, payer string, amount models.Amount) *ExpenseDetail {
	t.Helper()
	detail, err := e.svc.CreateGroupExpense(context.Background(), CreateExpenseInput{
		GroupID:     groupID,
		PayerID:     payer,
		Description: "Dinner",
		Amount:      amount,
		Date:        testNow,
	})
	require.NoError(t, err)
	return detail
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidInput, KindInvalidInput},
		{ErrInvalidSplitInput, KindInvalidSplitInput},
		{ErrNotFound, KindNotFound},
		{ErrUnauthorized, KindUnauthorized},
		{ErrAlreadyMember, KindAlreadyMember},
		{&storage.PersistenceError{Op: "op", Err: errors.New("disk full")}, KindPersistence},
		{context.Canceled, KindCanceled},
		{fmt.Errorf("failed to split expense: %w", ErrPolicyInvariant), KindInvariant},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

// failingStore fails every expense write with a persistence error.
type failingStore struct {
	storage.Store
}

func (failingStore) CreateExpenseWithSplits(context.Context, *models.Expense, []models.Split) error {
	return &storage.PersistenceError{Op: "create expense", Err: errors.New("database is locked")}
}

func TestPersistenceErrorsPropagate(t *testing.T) {
	env := newTestEnv(t)
	g := env.group(t, "Flaky", "alice", "bob")

	svc := NewService(failingStore{Store: env.store}, WithMetrics(env.metrics), WithClock(env.clock.Now))
	_, err := svc.CreateGroupExpense(context.Background(), CreateExpenseInput{
		GroupID:     g.ID,
		PayerID:     "alice",
		Description: "Taxi",
		Amount:      1200,
	})
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, KindPersistence, Kind(err))
	assert.Equal(t, 1.0, counterValue(t, env.reg, "ledger_operation_errors_total",
		map[string]string{"op": "create_expense", "kind": KindPersistence}))

	expenses, err := env.svc.ListGroupExpenses(context.Background(), g.ID, "alice")
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

// counterValue reads one labelled counter from reg, or 0 when absent.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

// histogramCount reads the sample count of one labelled histogram from reg,
// or 0 when absent.
func histogramCount(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) uint64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, p := range pairs {
		if v, ok := want[p.GetName()]; ok && v == p.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
