package service

import (
	"fmt"
	"time"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/models"
)

// Wire messages of groupledger.v1.LedgerService. Amounts are exact decimal
// strings in the server's currency (e.g. "33.34"); dates are YYYY-MM-DD.

type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
	MemberCount int    `json:"member_count,omitempty"`
}

type Membership struct {
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id"`
	JoinedAt int64  `json:"joined_at"`
}

type Expense struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	PaidBy      string `json:"paid_by"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	SplitType   string `json:"split_type"`
	CreatedAt   int64  `json:"created_at"`
}

type Split struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expense_id"`
	UserID    string `json:"user_id"`
	Amount    string `json:"amount"`
	Settled   bool   `json:"settled"`
	SettledAt int64  `json:"settled_at,omitempty"`
}

type RecentExpense struct {
	Expense
	GroupName string `json:"group_name"`
	UserShare string `json:"user_share"`
	Settled   bool   `json:"settled"`
}

type CounterpartyBalance struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type MemberBalance struct {
	UserID       string `json:"user_id"`
	NetBalance   string `json:"net_balance"`
	OwedToMember string `json:"owed_to_member"`
	MemberOwes   string `json:"member_owes"`
}

type Payment struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type JoinGroupRequest struct {
	GroupID string `json:"group_id"`
}

type JoinGroupResponse struct {
	Membership Membership `json:"membership"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group   Group    `json:"group"`
	Members []string `json:"members"`
}

type CreateExpenseRequest struct {
	GroupID     string `json:"group_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	// Date defaults to today when empty.
	Date string `json:"date,omitempty"`
	// SplitType is "equal" (default) or "exact".
	SplitType string `json:"split_type,omitempty"`
	// ExactAmounts maps member user IDs to their share for "exact" splits.
	ExactAmounts map[string]string `json:"exact_amounts,omitempty"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
	Splits  []Split `json:"splits"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type ListRecentExpensesRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListRecentExpensesResponse struct {
	Expenses []RecentExpense `json:"expenses"`
}

type GetBalanceSummaryRequest struct{}

type GetBalanceSummaryResponse struct {
	Currency        string                `json:"currency"`
	TotalOwedToUser string                `json:"total_owed_to_user"`
	TotalUserOwes   string                `json:"total_user_owes"`
	Net             string                `json:"net"`
	Counterparties  []CounterpartyBalance `json:"counterparties"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Currency string          `json:"currency"`
	Members  []MemberBalance `json:"members"`
	Payments []Payment       `json:"payments"`
}

type SettleSplitRequest struct {
	ExpenseID string `json:"expense_id"`
	// UserID is the split owner; it defaults to the caller.
	UserID string `json:"user_id,omitempty"`
}

type SettleSplitResponse struct {
	Split          Split `json:"split"`
	AlreadySettled bool  `json:"already_settled"`
}

// converter renders domain records in one currency.
type converter struct {
	currency string
}

func (c converter) amount(a models.Amount) string {
	return a.StringIn(c.currency)
}

func (c converter) parseAmount(field, s string) (models.Amount, error) {
	a, err := models.ParseAmount(s, c.currency)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ledger.ErrInvalidInput, field, err)
	}
	return a, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ledger.ErrInvalidInput, s)
	}
	return d, nil
}

func toGroup(g *models.Group) Group {
	return Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func (c converter) expense(e *models.Expense) Expense {
	return Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		Amount:      c.amount(e.Amount),
		Date:        e.Date.Format(models.DateLayout),
		SplitType:   string(e.Policy),
		CreatedAt:   e.CreatedAt,
	}
}

func (c converter) split(s *models.Split) Split {
	return Split{
		ID:        s.ID,
		ExpenseID: s.ExpenseID,
		UserID:    s.UserID,
		Amount:    c.amount(s.Amount),
		Settled:   s.Settled,
		SettledAt: s.SettledAt,
	}
}

func (c converter) expenseDetail(d *ledger.ExpenseDetail) *ExpenseResponse {
	resp := &ExpenseResponse{
		Expense: c.expense(d.Expense),
		Splits:  make([]Split, len(d.Splits)),
	}
	for i := range d.Splits {
		resp.Splits[i] = c.split(&d.Splits[i])
	}
	return resp
}

func (c converter) memberBalances(balances []calculator.MemberBalance) []MemberBalance {
	out := make([]MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = MemberBalance{
			UserID:       b.UserID,
			NetBalance:   c.amount(b.NetBalance),
			OwedToMember: c.amount(b.OwedToMember),
			MemberOwes:   c.amount(b.MemberOwes),
		}
	}
	return out
}

func (c converter) payments(edges []calculator.DebtEdge) []Payment {
	out := make([]Payment, len(edges))
	for i, e := range edges {
		out[i] = Payment{From: e.From, To: e.To, Amount: c.amount(e.Amount)}
	}
	return out
}
