package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
)

// SettlementResult is the outcome of SettleSplit.
type SettlementResult struct {
	Split *models.Split
	// AlreadySettled is true when the split had been settled before this
	// call; Split.SettledAt then holds the original timestamp.
	AlreadySettled bool
}

// SettleSplit marks splitOwnerUserID's share of an expense as settled.
//
// Only the debtor may settle their own split; any other requester gets
// ErrUnauthorized and nothing is read or written. Membership is not
// re-checked. Settling twice succeeds and keeps the first timestamp.
func (s *Service) SettleSplit(ctx context.Context, expenseID, splitOwnerUserID, requestingUserID string) (result *SettlementResult, err error) {
	defer s.observe("settle_split", time.Now(), &err)

	if err = checkIDs("expense_id", expenseID, "user_id", splitOwnerUserID); err != nil {
		return nil, err
	}
	if requestingUserID != splitOwnerUserID {
		err = fmt.Errorf("%w: %s may not settle the split of %s", ErrUnauthorized, requestingUserID, splitOwnerUserID)
		s.metrics.IncSettlement(metrics.OutcomeRejected)
		logResult("SettleSplit", err, "expense_id", expenseID, "owner_id", splitOwnerUserID, "user_id", requestingUserID)
		return nil, err
	}

	split, already, err := s.store.SettleSplit(ctx, expenseID, splitOwnerUserID, s.now().Unix())
	if err != nil {
		err = fmt.Errorf("failed to settle split: %w", err)
		logResult("SettleSplit", err, "expense_id", expenseID, "user_id", splitOwnerUserID)
		return nil, err
	}

	if already {
		s.metrics.IncSettlement(metrics.OutcomeAlreadySettled)
		slog.Info("Split already settled", "expense_id", expenseID, "user_id", splitOwnerUserID, "settled_at", split.SettledAt)
	} else {
		s.metrics.IncSettlement(metrics.OutcomeSettled)
		slog.Info("Split settled", "expense_id", expenseID, "user_id", splitOwnerUserID, "amount", split.Amount.String())
	}
	return &SettlementResult{Split: split, AlreadySettled: already}, nil
}
