package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

const selectDebts = `
	SELECT s.id, s.expense_id, e.group_id, e.paid_by, s.user_id, s.amount, s.settled, s.settled_at
	FROM expense_splits s
	JOIN group_expenses e ON e.id = s.expense_id`

// ListDebtsInvolving returns every split where userID is the debtor or paid
// the parent expense. Settled splits are included; callers filter.
func (s *SQLiteStore) ListDebtsInvolving(ctx context.Context, userID string) ([]models.Debt, error) {
	return s.listDebts(ctx, "list user debts",
		selectDebts+" WHERE s.user_id = ? OR e.paid_by = ? ORDER BY s.rowid",
		userID, userID,
	)
}

// ListDebtsForGroup returns every split of every expense in a group.
func (s *SQLiteStore) ListDebtsForGroup(ctx context.Context, groupID string) ([]models.Debt, error) {
	return s.listDebts(ctx, "list group debts",
		selectDebts+" WHERE e.group_id = ? ORDER BY s.rowid",
		groupID,
	)
}

func (s *SQLiteStore) listDebts(ctx context.Context, op, query string, args ...any) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query debts: %w", err))
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var (
			d         models.Debt
			settledAt sql.NullInt64
		)
		if err := rows.Scan(&d.SplitID, &d.ExpenseID, &d.GroupID, &d.Creditor, &d.Debtor, &d.Amount, &d.Settled, &settledAt); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("failed to scan debt: %w", err))
		}
		d.SettledAt = settledAt.Int64
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to iterate debts: %w", err))
	}
	return debts, nil
}
