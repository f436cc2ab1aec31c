package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

const selectSplit = "SELECT id, expense_id, user_id, amount, settled, settled_at FROM expense_splits WHERE expense_id = ? AND user_id = ?"

// SettleSplit marks userID's split on expenseID as settled at the given time.
// Settlement is monotonic: a settled split is returned as stored, with its
// original timestamp, and alreadySettled set.
func (s *SQLiteStore) SettleSplit(ctx context.Context, expenseID, userID string, at int64) (*models.Split, bool, error) {
	var (
		split          models.Split
		alreadySettled bool
	)

	err := s.withTx(ctx, "settle split", func(tx *sql.Tx) error {
		err := scanSplit(tx.QueryRowContext(ctx, selectSplit, expenseID, userID), &split)
		if err == sql.ErrNoRows {
			return fmt.Errorf("split of %s on expense %s: %w", userID, expenseID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get split: %w", err)
		}
		if split.Settled {
			alreadySettled = true
			return nil
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE expense_splits SET settled = 1, settled_at = ? WHERE id = ? AND settled = 0",
			at, split.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to settle split: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			// Settled by another writer between the read and the update.
			if err := scanSplit(tx.QueryRowContext(ctx, selectSplit, expenseID, userID), &split); err != nil {
				return fmt.Errorf("failed to reload split: %w", err)
			}
			alreadySettled = true
			return nil
		}

		split.Settled = true
		split.SettledAt = at
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &split, alreadySettled, nil
}
