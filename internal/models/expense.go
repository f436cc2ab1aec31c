package models

import "time"

// DateLayout is the storage and wire format of an expense date.
const DateLayout = "2006-01-02"

// SplitPolicy names the rule used to divide an expense among members.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly; leftover minor units go to the
	// lowest user IDs first.
	SplitEqual SplitPolicy = "equal"

	// SplitExact assigns caller-provided amounts that must add up to the total.
	SplitExact SplitPolicy = "exact"
)

// Valid reports whether p is a known policy.
func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitExact:
		return true
	}
	return false
}

// Expense represents one payment made by a member on behalf of a group.
// An expense and its splits are always written together.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Description is what the money was spent on (e.g., "Groceries").
	Description string

	// Amount is the total paid, in minor units. Always positive.
	Amount Amount

	// Date is the calendar day of the expense. Only the date part is kept.
	Date time.Time

	// Policy is the rule that produced the splits.
	Policy SplitPolicy

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split represents one member's owed share of an expense.
//
// Splits are created with their expense and are only ever changed by
// settlement, which flips Settled to true and stamps SettledAt once.
type Split struct {
	ID        string
	ExpenseID string

	// UserID is the debtor.
	UserID string

	// Amount is the debtor's share in minor units.
	Amount Amount

	Settled bool

	// SettledAt is the Unix timestamp of settlement, zero while outstanding.
	SettledAt int64
}

// Debt is a split joined with the payer of its expense. It is the input of
// every balance computation.
type Debt struct {
	SplitID   string
	ExpenseID string
	GroupID   string

	// Creditor is the payer of the expense.
	Creditor string

	// Debtor is the owner of the split.
	Debtor string

	Amount    Amount
	Settled   bool
	SettledAt int64
}

// ExpenseShare is an expense as seen by one member: the expense itself plus
// that member's share of it, if any.
type ExpenseShare struct {
	Expense

	// GroupName is the name of the owning group.
	GroupName string

	// UserShare is the viewing member's split amount; zero when the member
	// has no split on this expense.
	UserShare Amount

	// Settled reports whether the viewing member's split is settled.
	Settled bool
}
