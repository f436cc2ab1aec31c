package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

const expenseColumns = "id, group_id, paid_by, description, amount, date, split_type, created_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner, expense *models.Expense) error {
	var date string
	if err := row.Scan(
		&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Description,
		&expense.Amount, &date, &expense.Policy, &expense.CreatedAt,
	); err != nil {
		return err
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return fmt.Errorf("failed to parse expense date %q: %w", date, err)
	}
	expense.Date = d
	return nil
}

func scanSplit(row rowScanner, split *models.Split) error {
	var settledAt sql.NullInt64
	if err := row.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.Amount, &split.Settled, &settledAt); err != nil {
		return err
	}
	split.SettledAt = settledAt.Int64
	return nil
}

// CreateExpenseWithSplits persists an expense and its splits in one transaction.
// Membership of the payer and every debtor is re-checked inside the transaction.
func (s *SQLiteStore) CreateExpenseWithSplits(ctx context.Context, expense *models.Expense, splits []models.Split) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}
	if expense.Policy == "" {
		expense.Policy = models.SplitEqual
	}

	return s.withTx(ctx, "create expense", func(tx *sql.Tx) error {
		exists, err := groupExists(ctx, tx, expense.GroupID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
		}

		member, err := isMember(ctx, tx, expense.GroupID, expense.PaidBy)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("payer %s is not a member of group %s", expense.PaidBy, expense.GroupID)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			expense.ID, expense.GroupID, expense.PaidBy, expense.Description,
			expense.Amount, expense.Date.Format(models.DateLayout), expense.Policy, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, amount, settled, settled_at) VALUES (?, ?, ?, ?, 0, NULL)",
		)
		if err != nil {
			return fmt.Errorf("failed to prepare split insert: %w", err)
		}
		defer stmt.Close()

		for i := range splits {
			split := &splits[i]
			member, err := isMember(ctx, tx, expense.GroupID, split.UserID)
			if err != nil {
				return err
			}
			if !member {
				return fmt.Errorf("debtor %s is not a member of group %s", split.UserID, expense.GroupID)
			}

			if split.ID == "" {
				split.ID = uuid.New().String()
			}
			split.ExpenseID = expense.ID
			split.Settled = false
			split.SettledAt = 0

			if _, err := stmt.ExecContext(ctx, split.ID, split.ExpenseID, split.UserID, split.Amount); err != nil {
				return fmt.Errorf("failed to insert split for %s: %w", split.UserID, err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM group_expenses WHERE id = ?",
		expenseID,
	)
	err := scanExpense(row, expense)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, storage.Wrap("get expense", fmt.Errorf("failed to get expense: %w", err))
	}
	return expense, nil
}

// ListExpensesForGroup returns a group's expenses, newest first.
func (s *SQLiteStore) ListExpensesForGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM group_expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC, rowid DESC",
		groupID,
	)
	if err != nil {
		return nil, storage.Wrap("list expenses", fmt.Errorf("failed to list expenses: %w", err))
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := scanExpense(rows, expense); err != nil {
			return nil, storage.Wrap("list expenses", fmt.Errorf("failed to scan expense: %w", err))
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list expenses", fmt.Errorf("failed to iterate expenses: %w", err))
	}
	return expenses, nil
}

// ListSplitsForExpense returns the splits of an expense ordered by debtor.
func (s *SQLiteStore) ListSplitsForExpense(ctx context.Context, expenseID string) ([]models.Split, error) {
	return s.listSplits(ctx, "list splits",
		"SELECT id, expense_id, user_id, amount, settled, settled_at FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
}

// ListSplitsForUser returns every split owed by userID.
func (s *SQLiteStore) ListSplitsForUser(ctx context.Context, userID string) ([]models.Split, error) {
	return s.listSplits(ctx, "list user splits",
		"SELECT id, expense_id, user_id, amount, settled, settled_at FROM expense_splits WHERE user_id = ? ORDER BY rowid",
		userID,
	)
}

func (s *SQLiteStore) listSplits(ctx context.Context, op, query string, args ...any) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to query splits: %w", err))
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		if err := scanSplit(rows, &split); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("failed to scan split: %w", err))
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("failed to iterate splits: %w", err))
	}
	return splits, nil
}

// ListRecentExpenses returns the most recently recorded expenses across every
// group userID belongs to, with userID's own share of each. Order is by
// recording time, so a back-dated expense still shows up first.
func (s *SQLiteStore) ListRecentExpenses(ctx context.Context, userID string, limit int) ([]*models.ExpenseShare, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.group_id, e.paid_by, e.description, e.amount, e.date, e.split_type, e.created_at,
		       g.name, COALESCE(s.amount, 0), COALESCE(s.settled, 0)
		FROM group_expenses e
		JOIN groups g ON g.id = e.group_id
		JOIN group_members m ON m.group_id = e.group_id AND m.user_id = ?
		LEFT JOIN expense_splits s ON s.expense_id = e.id AND s.user_id = ?
		ORDER BY e.created_at DESC, e.rowid DESC
		LIMIT ?`,
		userID, userID, limit,
	)
	if err != nil {
		return nil, storage.Wrap("list recent expenses", fmt.Errorf("failed to query recent expenses: %w", err))
	}
	defer rows.Close()

	var shares []*models.ExpenseShare
	for rows.Next() {
		share := &models.ExpenseShare{}
		var date string
		if err := rows.Scan(
			&share.ID, &share.GroupID, &share.PaidBy, &share.Description,
			&share.Amount, &date, &share.Policy, &share.CreatedAt,
			&share.GroupName, &share.UserShare, &share.Settled,
		); err != nil {
			return nil, storage.Wrap("list recent expenses", fmt.Errorf("failed to scan expense: %w", err))
		}
		if share.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, storage.Wrap("list recent expenses", fmt.Errorf("failed to parse expense date %q: %w", date, err))
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("list recent expenses", fmt.Errorf("failed to iterate expenses: %w", err))
	}
	return shares, nil
}
