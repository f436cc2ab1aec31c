package ledger

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/storage"
)

var (
	// ErrInvalidInput is returned when a request is missing required fields
	// or a field is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when the requesting user may not perform
	// the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSplitInput is returned when an expense cannot be split.
	ErrInvalidSplitInput = calculator.ErrInvalidSplitInput

	// ErrNotFound is returned for unknown groups, expenses and splits.
	ErrNotFound = storage.ErrNotFound

	// ErrAlreadyMember is returned when joining a group twice. It is a soft
	// conflict: nothing was written and the existing membership stands.
	ErrAlreadyMember = storage.ErrAlreadyMember

	// ErrPolicyInvariant is returned when a split policy produced shares
	// that do not reconcile to the expense amount.
	ErrPolicyInvariant = calculator.ErrPolicyInvariant

	// ErrPersistence matches storage failures. The request had no effect
	// and may be retried as a whole.
	ErrPersistence = storage.ErrPersistence
)

// Error kinds reported by Kind.
const (
	KindInvalidInput      = "invalid_input"
	KindInvalidSplitInput = "invalid_split_input"
	KindNotFound          = "not_found"
	KindUnauthorized      = "unauthorized"
	KindAlreadyMember     = "already_member"
	KindPersistence       = "persistence"
	KindInvariant         = "invariant"
	KindCanceled          = "canceled"
	KindInternal          = "internal"
)

// Kind classifies err into one of the Kind constants. It returns "" for a
// nil error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrInvalidSplitInput):
		return KindInvalidSplitInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrAlreadyMember):
		return KindAlreadyMember
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrPolicyInvariant):
		return KindInvariant
	default:
		return KindInternal
	}
}
