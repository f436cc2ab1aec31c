// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/mmynk/groupledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger service.
//
// Every mutating method runs as a single transaction: either all of its rows
// are written or none are.
type Store interface {
	// CreateGroup persists a new group together with the creator's
	// membership. The group.ID and CreatedAt fields are populated by the
	// store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupSummary, error)

	// AddMember inserts a membership.
	// Returns ErrNotFound if the group does not exist and ErrAlreadyMember if
	// the membership already exists.
	AddMember(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// ListMembers returns the user IDs of a group's members in ascending order.
	ListMembers(ctx context.Context, groupID string) ([]string, error)

	// IsMember reports whether userID currently belongs to groupID.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateExpenseWithSplits persists an expense and all of its splits
	// atomically. The payer and every debtor must be members of the group
	// when the transaction runs; otherwise nothing is written and a
	// *PersistenceError is returned. Empty IDs and timestamps are populated.
	CreateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []models.Split) error

	// GetExpense retrieves an expense by ID.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesForGroup returns a group's expenses, newest first.
	ListExpensesForGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListSplitsForExpense returns the splits of an expense ordered by debtor.
	ListSplitsForExpense(ctx context.Context, expenseID string) ([]models.Split, error)

	// ListSplitsForUser returns every split owed by userID, settled or not.
	ListSplitsForUser(ctx context.Context, userID string) ([]models.Split, error)

	// ListDebtsInvolving returns every split where userID is either the
	// debtor or the payer of the parent expense.
	ListDebtsInvolving(ctx context.Context, userID string) ([]models.Debt, error)

	// ListDebtsForGroup returns every split of every expense in a group.
	ListDebtsForGroup(ctx context.Context, groupID string) ([]models.Debt, error)

	// ListRecentExpenses returns up to limit expenses from groups userID
	// belongs to, most recently recorded first, annotated with userID's share.
	ListRecentExpenses(ctx context.Context, userID string, limit int) ([]*models.ExpenseShare, error)

	// SettleSplit marks the split owned by userID on expenseID as settled at
	// the given Unix time. If the split is already settled it is returned
	// unchanged with alreadySettled set. Returns ErrNotFound if no such
	// split exists.
	SettleSplit(ctx context.Context, expenseID, userID string, at int64) (split *models.Split, alreadySettled bool, err error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
