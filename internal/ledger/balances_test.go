package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
)

func TestBalancesAfterEqualExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "Flat", "alice", "bob", "carol")
	env.expense(t, g.ID, "alice", models.MustParseAmount("100.00", "USD"))

	alice, err := env.svc.ComputeBalances(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Amount{"bob": 3333, "carol": 3333}, alice)

	owed, err := env.svc.TotalOwedToUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "66.66", owed.String())

	owes, err := env.svc.TotalUserOwes(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "33.33", owes.String())

	summary, err := env.svc.GetBalanceSummary(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, models.Amount(0), summary.TotalOwedToUser)
	assert.Equal(t, models.Amount(3333), summary.TotalUserOwes)
	assert.Equal(t, models.Amount(-3333), summary.Net)
	assert.Equal(t, []CounterpartyBalance{{UserID: "alice", Amount: -3333}}, summary.Counterparties)
}

func TestBalanceSymmetryAcrossGroups(t *testing.T) {
	env := newTestEnv(t)
	users := []string{"alice", "bob", "carol", "dave"}
	g1 := env.group(t, "One", users...)
	g2 := env.group(t, "Two", "carol", "alice", "dave")

	env.expense(t, g1.ID, "alice", 10001)
	env.expense(t, g1.ID, "bob", 2503)
	env.expense(t, g2.ID, "carol", 777)
	env.expense(t, g2.ID, "dave", 12345)
	_, err := env.svc.SettleSplit(context.Background(), env.expense(t, g1.ID, "dave", 400).Expense.ID, "bob", "bob")
	require.NoError(t, err)

	all := make(map[string]map[string]models.Amount, len(users))
	for _, u := range users {
		b, err := env.svc.ComputeBalances(context.Background(), u)
		require.NoError(t, err)
		all[u] = b
	}
	var total models.Amount
	for _, u := range users {
		for _, v := range users {
			if u != v {
				assert.Equal(t, all[u][v], -all[v][u], "balance(%s,%s)", u, v)
			}
		}
		total += calculator.TotalOwedToUser(all[u]) - calculator.TotalUserOwes(all[u])
	}
	assert.Zero(t, total, "nets across all users must cancel out")
}

func TestGetGroupBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.group(t, "Trip", "alice", "bob", "carol")
	env.expense(t, g.ID, "alice", 9000)
	env.expense(t, g.ID, "bob", 3000)

	_, err := env.svc.GetGroupBalances(ctx, g.ID, "mallory")
	require.ErrorIs(t, err, ErrUnauthorized)

	result, err := env.svc.GetGroupBalances(ctx, g.ID, "carol")
	require.NoError(t, err)
	require.Len(t, result.Members, 3)

	nets := map[string]models.Amount{}
	for _, m := range result.Members {
		nets[m.UserID] = m.NetBalance
	}
	assert.Equal(t, map[string]models.Amount{"alice": 5000, "bob": -1000, "carol": -4000}, nets)

	var paid models.Amount
	for _, p := range result.Payments {
		assert.Equal(t, "alice", p.To)
		paid += p.Amount
	}
	assert.Equal(t, models.Amount(5000), paid)
}
