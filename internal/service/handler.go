package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// LedgerServiceName is the fully-qualified name of the ledger service.
	LedgerServiceName = "groupledger.v1.LedgerService"

	CreateGroupProcedure        = "/" + LedgerServiceName + "/CreateGroup"
	JoinGroupProcedure          = "/" + LedgerServiceName + "/JoinGroup"
	ListGroupsProcedure         = "/" + LedgerServiceName + "/ListGroups"
	GetGroupProcedure           = "/" + LedgerServiceName + "/GetGroup"
	CreateExpenseProcedure      = "/" + LedgerServiceName + "/CreateExpense"
	GetExpenseProcedure         = "/" + LedgerServiceName + "/GetExpense"
	ListExpensesProcedure       = "/" + LedgerServiceName + "/ListExpenses"
	ListRecentExpensesProcedure = "/" + LedgerServiceName + "/ListRecentExpenses"
	GetBalanceSummaryProcedure  = "/" + LedgerServiceName + "/GetBalanceSummary"
	GetGroupBalancesProcedure   = "/" + LedgerServiceName + "/GetGroupBalances"
	SettleSplitProcedure        = "/" + LedgerServiceName + "/SettleSplit"
)

// jsonCodec marshals plain Go structs. It replaces Connect's protobuf JSON
// codec, which only accepts generated messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Codec returns the option every ledger client and handler must use.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// NewLedgerServiceHandler builds an HTTP handler for every ledger procedure.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateGroupProcedure, connect.NewUnaryHandler(CreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(JoinGroupProcedure, connect.NewUnaryHandler(JoinGroupProcedure, svc.JoinGroup, opts...))
	mux.Handle(ListGroupsProcedure, connect.NewUnaryHandler(ListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GetGroupProcedure, connect.NewUnaryHandler(GetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(CreateExpenseProcedure, connect.NewUnaryHandler(CreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(GetExpenseProcedure, connect.NewUnaryHandler(GetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(ListExpensesProcedure, connect.NewUnaryHandler(ListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(ListRecentExpensesProcedure, connect.NewUnaryHandler(ListRecentExpensesProcedure, svc.ListRecentExpenses, opts...))
	mux.Handle(GetBalanceSummaryProcedure, connect.NewUnaryHandler(GetBalanceSummaryProcedure, svc.GetBalanceSummary, opts...))
	mux.Handle(GetGroupBalancesProcedure, connect.NewUnaryHandler(GetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	mux.Handle(SettleSplitProcedure, connect.NewUnaryHandler(SettleSplitProcedure, svc.SettleSplit, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a remote ledger service.
type LedgerServiceClient struct {
	createGroup        *connect.Client[CreateGroupRequest, CreateGroupResponse]
	joinGroup          *connect.Client[JoinGroupRequest, JoinGroupResponse]
	listGroups         *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getGroup           *connect.Client[GetGroupRequest, GetGroupResponse]
	createExpense      *connect.Client[CreateExpenseRequest, ExpenseResponse]
	getExpense         *connect.Client[GetExpenseRequest, ExpenseResponse]
	listExpenses       *connect.Client[ListExpensesRequest, ListExpensesResponse]
	listRecentExpenses *connect.Client[ListRecentExpensesRequest, ListRecentExpensesResponse]
	getBalanceSummary  *connect.Client[GetBalanceSummaryRequest, GetBalanceSummaryResponse]
	getGroupBalances   *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
	settleSplit        *connect.Client[SettleSplitRequest, SettleSplitResponse]
}

// NewLedgerServiceClient constructs a client for the ledger service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{Codec()}, opts...)
	return &LedgerServiceClient{
		createGroup:        connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		joinGroup:          connect.NewClient[JoinGroupRequest, JoinGroupResponse](httpClient, baseURL+JoinGroupProcedure, opts...),
		listGroups:         connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+ListGroupsProcedure, opts...),
		getGroup:           connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		createExpense:      connect.NewClient[CreateExpenseRequest, ExpenseResponse](httpClient, baseURL+CreateExpenseProcedure, opts...),
		getExpense:         connect.NewClient[GetExpenseRequest, ExpenseResponse](httpClient, baseURL+GetExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ListExpensesProcedure, opts...),
		listRecentExpenses: connect.NewClient[ListRecentExpensesRequest, ListRecentExpensesResponse](httpClient, baseURL+ListRecentExpensesProcedure, opts...),
		getBalanceSummary:  connect.NewClient[GetBalanceSummaryRequest, GetBalanceSummaryResponse](httpClient, baseURL+GetBalanceSummaryProcedure, opts...),
		getGroupBalances:   connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+GetGroupBalancesProcedure, opts...),
		settleSplit:        connect.NewClient[SettleSplitRequest, SettleSplitResponse](httpClient, baseURL+SettleSplitProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListRecentExpenses(ctx context.Context, req *connect.Request[ListRecentExpensesRequest]) (*connect.Response[ListRecentExpensesResponse], error) {
	return c.listRecentExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalanceSummary(ctx context.Context, req *connect.Request[GetBalanceSummaryRequest]) (*connect.Response[GetBalanceSummaryResponse], error) {
	return c.getBalanceSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleSplit(ctx context.Context, req *connect.Request[SettleSplitRequest]) (*connect.Response[SettleSplitResponse], error) {
	return c.settleSplit.CallUnary(ctx, req)
}
