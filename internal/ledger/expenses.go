package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
)

// CreateExpenseInput describes an expense paid by one group member.
type CreateExpenseInput struct {
	GroupID     string `validate:"required"`
	PayerID     string `validate:"required"`
	Description string `validate:"required,max=200"`

	// Amount is the total in minor units. Non-positive amounts are
	// rejected with ErrInvalidSplitInput.
	Amount models.Amount

	// Date is the day of the expense. The zero value means today.
	Date time.Time

	// Policy selects how the amount is divided. Empty means equal.
	Policy models.SplitPolicy

	// ExactAmounts holds each member's share for the exact policy.
	ExactAmounts map[string]models.Amount
}

// ExpenseDetail is an expense together with its splits.
type ExpenseDetail struct {
	Expense *models.Expense
	Splits  []models.Split
}

// CreateGroupExpense records an expense and fans it out into one split per
// owing member. The expense and its splits are persisted atomically.
//
// The payer must belong to the group. With the equal policy every current
// member, the payer included, receives a share.
func (s *Service) CreateGroupExpense(ctx context.Context, in CreateExpenseInput) (detail *ExpenseDetail, err error) {
	defer s.observe("create_expense", time.Now(), &err)

	in.Description = strings.TrimSpace(in.Description)
	if err = s.checkStruct(in); err != nil {
		logResult("CreateGroupExpense", err, "group_id", in.GroupID, "payer_id", in.PayerID)
		return nil, err
	}

	policy, err := calculator.PolicyFor(in.Policy, in.ExactAmounts)
	if err != nil {
		logResult("CreateGroupExpense", err, "group_id", in.GroupID, "policy", in.Policy)
		return nil, err
	}

	if _, err = s.requireMember(ctx, in.GroupID, in.PayerID); err != nil {
		logResult("CreateGroupExpense", err, "group_id", in.GroupID, "payer_id", in.PayerID)
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, in.GroupID)
	if err != nil {
		err = fmt.Errorf("failed to list members: %w", err)
		logResult("CreateGroupExpense", err, "group_id", in.GroupID)
		return nil, err
	}

	shares, err := calculator.ComputeSplits(in.Amount, policy, members)
	if err != nil {
		logResult("CreateGroupExpense", err, "group_id", in.GroupID, "amount", in.Amount, "members", len(members))
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	expense := &models.Expense{
		GroupID:     in.GroupID,
		PaidBy:      in.PayerID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Policy:      policy.Kind(),
	}
	splits := make([]models.Split, len(shares))
	for i, share := range shares {
		splits[i] = models.Split{UserID: share.UserID, Amount: share.Amount}
	}

	if err = s.store.CreateExpenseWithSplits(ctx, expense, splits); err != nil {
		err = fmt.Errorf("failed to create expense: %w", err)
		logResult("CreateGroupExpense", err, "group_id", in.GroupID, "payer_id", in.PayerID)
		return nil, err
	}

	s.metrics.IncExpense(string(expense.Policy))
	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PaidBy,
		"amount", expense.Amount.String(),
		"policy", expense.Policy,
		"splits", len(splits),
	)
	return &ExpenseDetail{Expense: expense, Splits: splits}, nil
}

// GetExpense returns an expense and its splits to a member of its group.
func (s *Service) GetExpense(ctx context.Context, expenseID, requestingUserID string) (detail *ExpenseDetail, err error) {
	defer s.observe("get_expense", time.Now(), &err)

	if err = checkIDs("expense_id", expenseID, "user_id", requestingUserID); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		err = fmt.Errorf("failed to get expense: %w", err)
		logResult("GetExpense", err, "expense_id", expenseID)
		return nil, err
	}
	if _, err = s.requireMember(ctx, expense.GroupID, requestingUserID); err != nil {
		logResult("GetExpense", err, "expense_id", expenseID, "user_id", requestingUserID)
		return nil, err
	}

	splits, err := s.store.ListSplitsForExpense(ctx, expenseID)
	if err != nil {
		err = fmt.Errorf("failed to list splits: %w", err)
		logResult("GetExpense", err, "expense_id", expenseID)
		return nil, err
	}
	return &ExpenseDetail{Expense: expense, Splits: splits}, nil
}

// ListGroupExpenses returns a group's expenses, newest first, to one of its
// members.
func (s *Service) ListGroupExpenses(ctx context.Context, groupID, requestingUserID string) (expenses []*models.Expense, err error) {
	defer s.observe("list_expenses", time.Now(), &err)

	if _, err = s.requireMember(ctx, groupID, requestingUserID); err != nil {
		logResult("ListGroupExpenses", err, "group_id", groupID, "user_id", requestingUserID)
		return nil, err
	}
	expenses, err = s.store.ListExpensesForGroup(ctx, groupID)
	if err != nil {
		err = fmt.Errorf("failed to list expenses: %w", err)
		logResult("ListGroupExpenses", err, "group_id", groupID)
		return nil, err
	}
	return expenses, nil
}

// ListRecentExpenses returns the newest expenses across userID's groups with
// userID's share of each. A non-positive limit uses the configured default.
func (s *Service) ListRecentExpenses(ctx context.Context, userID string, limit int) (expenses []*models.ExpenseShare, err error) {
	defer s.observe("list_recent_expenses", time.Now(), &err)

	if err = checkIDs("user_id", userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.recentLimit
	}
	expenses, err = s.store.ListRecentExpenses(ctx, userID, limit)
	if err != nil {
		err = fmt.Errorf("failed to list recent expenses: %w", err)
		logResult("ListRecentExpenses", err, "user_id", userID)
		return nil, err
	}
	return expenses, nil
}
