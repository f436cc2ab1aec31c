package calculator

import (
	"sort"

	"github.com/mmynk/groupledger/internal/models"
)

// MemberBalance represents the outstanding position of one group member.
type MemberBalance struct {
	UserID string

	// NetBalance is positive when the member is owed money and negative when
	// the member owes money.
	NetBalance models.Amount

	// OwedToMember is the sum of unsettled splits others owe this member.
	OwedToMember models.Amount

	// MemberOwes is the sum of unsettled splits this member owes others.
	MemberOwes models.Amount
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount models.Amount
}

// outstanding reports whether a debt still counts toward balances.
// A payer's own share of an expense is never a debt.
func outstanding(d models.Debt) bool {
	return !d.Settled && d.Creditor != d.Debtor && d.Amount != 0
}

// ComputeBalances returns, for userID, the signed net amount per
// counterparty: positive means the counterparty owes userID, negative means
// userID owes the counterparty.
//
// Algorithm:
// - For each unsettled split where userID paid: counterparty owes +amount
// - For each unsettled split userID owes: counterparty is owed -amount
// - Counterparties netting to zero are omitted
func ComputeBalances(userID string, debts []models.Debt) map[string]models.Amount {
	balances := make(map[string]models.Amount)
	for _, d := range debts {
		if !outstanding(d) {
			continue
		}
		switch userID {
		case d.Creditor:
			balances[d.Debtor] += d.Amount
		case d.Debtor:
			balances[d.Creditor] -= d.Amount
		}
	}
	for counterparty, net := range balances {
		if net == 0 {
			delete(balances, counterparty)
		}
	}
	return balances
}

// TotalOwedToUser sums the positive entries of a ComputeBalances result.
func TotalOwedToUser(balances map[string]models.Amount) models.Amount {
	var total models.Amount
	for _, net := range balances {
		if net > 0 {
			total += net
		}
	}
	return total
}

// TotalUserOwes sums the negative entries of a ComputeBalances result as a
// positive amount.
func TotalUserOwes(balances map[string]models.Amount) models.Amount {
	var total models.Amount
	for _, net := range balances {
		if net < 0 {
			total -= net
		}
	}
	return total
}

// ComputeGroupBalances aggregates the unsettled debts of a group into one
// balance per member, ordered by user ID. members lists users to include
// even when they have no outstanding debts.
func ComputeGroupBalances(members []string, debts []models.Debt) []MemberBalance {
	balances := make(map[string]*MemberBalance, len(members))
	get := func(userID string) *MemberBalance {
		b, ok := balances[userID]
		if !ok {
			b = &MemberBalance{UserID: userID}
			balances[userID] = b
		}
		return b
	}
	for _, m := range members {
		get(m)
	}

	for _, d := range debts {
		if !outstanding(d) {
			continue
		}
		get(d.Creditor).OwedToMember += d.Amount
		get(d.Debtor).MemberOwes += d.Amount
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		b.NetBalance = b.OwedToMember - b.MemberOwes
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

// SimplifyDebts turns member net balances into a short list of payments
// that would settle the group, matching the largest debtor with the largest
// creditor until both sides are exhausted.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type position struct {
		userID string
		amount models.Amount
	}

	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetBalance > 0:
			creditors = append(creditors, position{b.UserID, b.NetBalance})
		case b.NetBalance < 0:
			debtors = append(debtors, position{b.UserID, -b.NetBalance})
		}
	}
	byAmount := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].userID < p[j].userID
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, DebtEdge{
			From:   debtors[i].userID,
			To:     creditors[j].userID,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}
	return edges
}
