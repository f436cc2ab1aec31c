package service

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/models"
)

var errNoCaller = errors.New("no authenticated user on request")

// LedgerService implements groupledger.v1.LedgerService on top of the
// domain service. The caller's identity always comes from the verified
// token, never from the request body.
type LedgerService struct {
	ledger *ledger.Service
	conv   converter
}

// NewLedgerService creates a new LedgerService rendering amounts in currency.
func NewLedgerService(svc *ledger.Service, currency string) *LedgerService {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &LedgerService{ledger: svc, conv: converter{currency: strings.ToUpper(currency)}}
}

func caller(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoCaller)
	}
	return userID, nil
}

// CreateGroup creates a new group owned by the caller.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.ledger.CreateGroup(ctx, ledger.CreateGroupInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CreatorID:   userID,
	})
	if err != nil {
		return nil, connectError(err)
	}

	g := toGroup(group)
	g.MemberCount = 1
	return connect.NewResponse(&CreateGroupResponse{Group: g}), nil
}

// JoinGroup adds the caller to a group.
func (s *LedgerService) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	membership, err := s.ledger.JoinGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&JoinGroupResponse{
		Membership: Membership{
			GroupID:  membership.GroupID,
			UserID:   membership.UserID,
			JoinedAt: membership.JoinedAt,
		},
	}), nil
}

// ListGroups lists the caller's groups, newest first.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.ledger.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &ListGroupsResponse{Groups: make([]Group, len(groups))}
	for i, g := range groups {
		resp.Groups[i] = toGroup(&g.Group)
		resp.Groups[i].MemberCount = g.MemberCount
	}
	return connect.NewResponse(resp), nil
}

// GetGroup returns a group and its members.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.ledger.GetGroupDetail(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	g := toGroup(detail.Group)
	g.MemberCount = len(detail.Members)
	return connect.NewResponse(&GetGroupResponse{Group: g, Members: detail.Members}), nil
}

// CreateExpense records an expense paid by the caller.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	in := ledger.CreateExpenseInput{
		GroupID:     req.Msg.GroupID,
		PayerID:     userID,
		Description: req.Msg.Description,
		Policy:      models.SplitPolicy(strings.ToLower(req.Msg.SplitType)),
	}
	if in.Amount, err = s.conv.parseAmount("amount", req.Msg.Amount); err != nil {
		return nil, connectError(err)
	}
	if in.Date, err = parseDate(req.Msg.Date); err != nil {
		return nil, connectError(err)
	}
	if len(req.Msg.ExactAmounts) > 0 {
		in.ExactAmounts = make(map[string]models.Amount, len(req.Msg.ExactAmounts))
		for member, amount := range req.Msg.ExactAmounts {
			if in.ExactAmounts[member], err = s.conv.parseAmount("exact_amounts."+member, amount); err != nil {
				return nil, connectError(err)
			}
		}
	}

	detail, err := s.ledger.CreateGroupExpense(ctx, in)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(s.conv.expenseDetail(detail)), nil
}

// GetExpense returns an expense and its splits.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(s.conv.expenseDetail(detail)), nil
}

// ListExpenses lists a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListGroupExpenses(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &ListExpensesResponse{Expenses: make([]Expense, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = s.conv.expense(e)
	}
	return connect.NewResponse(resp), nil
}

// ListRecentExpenses lists the newest expenses across the caller's groups.
func (s *LedgerService) ListRecentExpenses(ctx context.Context, req *connect.Request[ListRecentExpensesRequest]) (*connect.Response[ListRecentExpensesResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListRecentExpenses(ctx, userID, req.Msg.Limit)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &ListRecentExpensesResponse{Expenses: make([]RecentExpense, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = RecentExpense{
			Expense:   s.conv.expense(&e.Expense),
			GroupName: e.GroupName,
			UserShare: s.conv.amount(e.UserShare),
			Settled:   e.Settled,
		}
	}
	return connect.NewResponse(resp), nil
}

// GetBalanceSummary returns the caller's totals and per-counterparty nets.
func (s *LedgerService) GetBalanceSummary(ctx context.Context, req *connect.Request[GetBalanceSummaryRequest]) (*connect.Response[GetBalanceSummaryResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.GetBalanceSummary(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &GetBalanceSummaryResponse{
		Currency:        s.conv.currency,
		TotalOwedToUser: s.conv.amount(summary.TotalOwedToUser),
		TotalUserOwes:   s.conv.amount(summary.TotalUserOwes),
		Net:             s.conv.amount(summary.Net),
		Counterparties:  make([]CounterpartyBalance, len(summary.Counterparties)),
	}
	for i, c := range summary.Counterparties {
		resp.Counterparties[i] = CounterpartyBalance{UserID: c.UserID, Amount: s.conv.amount(c.Amount)}
	}
	return connect.NewResponse(resp), nil
}

// GetGroupBalances returns every member's position in a group.
func (s *LedgerService) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.ledger.GetGroupBalances(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&GetGroupBalancesResponse{
		Currency: s.conv.currency,
		Members:  s.conv.memberBalances(balances.Members),
		Payments: s.conv.payments(balances.Payments),
	}), nil
}

// SettleSplit marks a split as settled on behalf of the caller.
func (s *LedgerService) SettleSplit(ctx context.Context, req *connect.Request[SettleSplitRequest]) (*connect.Response[SettleSplitResponse], error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	owner := req.Msg.UserID
	if owner == "" {
		owner = userID
	}
	result, err := s.ledger.SettleSplit(ctx, req.Msg.ExpenseID, owner, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&SettleSplitResponse{
		Split:          s.conv.split(result.Split),
		AlreadySettled: result.AlreadySettled,
	}), nil
}
