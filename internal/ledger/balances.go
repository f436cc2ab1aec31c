package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
)

// CounterpartyBalance is userID's net position with one other user.
// Positive means the counterparty owes the user.
type CounterpartyBalance struct {
	UserID string
	Amount models.Amount
}

// BalanceSummary is a user's outstanding position across every group.
type BalanceSummary struct {
	UserID          string
	TotalOwedToUser models.Amount
	TotalUserOwes   models.Amount
	// Net is TotalOwedToUser minus TotalUserOwes.
	Net models.Amount
	// Counterparties is ordered by user ID and omits settled-up pairs.
	Counterparties []CounterpartyBalance
}

// GroupBalances is the outstanding position of every member of one group.
type GroupBalances struct {
	GroupID string
	Members []calculator.MemberBalance
	// Payments is a short list of transfers that would settle the group.
	Payments []calculator.DebtEdge
}

// ComputeBalances returns userID's signed net amount per counterparty over
// all unsettled splits.
func (s *Service) ComputeBalances(ctx context.Context, userID string) (balances map[string]models.Amount, err error) {
	defer s.observe("compute_balances", time.Now(), &err)

	balances, err = s.balances(ctx, userID)
	if err != nil {
		logResult("ComputeBalances", err, "user_id", userID)
		return nil, err
	}
	return balances, nil
}

// TotalOwedToUser is the sum of what counterparties owe userID.
func (s *Service) TotalOwedToUser(ctx context.Context, userID string) (models.Amount, error) {
	balances, err := s.ComputeBalances(ctx, userID)
	if err != nil {
		return 0, err
	}
	return calculator.TotalOwedToUser(balances), nil
}

// TotalUserOwes is the sum of what userID owes counterparties.
func (s *Service) TotalUserOwes(ctx context.Context, userID string) (models.Amount, error) {
	balances, err := s.ComputeBalances(ctx, userID)
	if err != nil {
		return 0, err
	}
	return calculator.TotalUserOwes(balances), nil
}

// GetBalanceSummary returns userID's totals and per-counterparty breakdown
// from a single read of the ledger.
func (s *Service) GetBalanceSummary(ctx context.Context, userID string) (summary *BalanceSummary, err error) {
	defer s.observe("balance_summary", time.Now(), &err)

	balances, err := s.balances(ctx, userID)
	if err != nil {
		logResult("GetBalanceSummary", err, "user_id", userID)
		return nil, err
	}

	summary = &BalanceSummary{
		UserID:          userID,
		TotalOwedToUser: calculator.TotalOwedToUser(balances),
		TotalUserOwes:   calculator.TotalUserOwes(balances),
		Counterparties:  make([]CounterpartyBalance, 0, len(balances)),
	}
	summary.Net = summary.TotalOwedToUser - summary.TotalUserOwes
	for counterparty, amount := range balances {
		summary.Counterparties = append(summary.Counterparties, CounterpartyBalance{UserID: counterparty, Amount: amount})
	}
	sort.Slice(summary.Counterparties, func(i, j int) bool {
		return summary.Counterparties[i].UserID < summary.Counterparties[j].UserID
	})
	return summary, nil
}

// GetGroupBalances returns every member's position within one group to a
// member of that group.
func (s *Service) GetGroupBalances(ctx context.Context, groupID, requestingUserID string) (result *GroupBalances, err error) {
	defer s.observe("group_balances", time.Now(), &err)

	if _, err = s.requireMember(ctx, groupID, requestingUserID); err != nil {
		logResult("GetGroupBalances", err, "group_id", groupID, "user_id", requestingUserID)
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		err = fmt.Errorf("failed to list members: %w", err)
		logResult("GetGroupBalances", err, "group_id", groupID)
		return nil, err
	}
	debts, err := s.store.ListDebtsForGroup(ctx, groupID)
	if err != nil {
		err = fmt.Errorf("failed to list debts: %w", err)
		logResult("GetGroupBalances", err, "group_id", groupID)
		return nil, err
	}

	balances := calculator.ComputeGroupBalances(members, debts)
	return &GroupBalances{
		GroupID:  groupID,
		Members:  balances,
		Payments: calculator.SimplifyDebts(balances),
	}, nil
}

func (s *Service) balances(ctx context.Context, userID string) (map[string]models.Amount, error) {
	if err := checkIDs("user_id", userID); err != nil {
		return nil, err
	}
	debts, err := s.store.ListDebtsInvolving(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return calculator.ComputeBalances(userID, debts), nil
}
