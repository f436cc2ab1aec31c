// Package models defines the core domain records of the group ledger.
//
// # Records
//
// The ledger persists four kinds of rows:
//   - Group: a named set of people sharing expenses
//   - Membership: one (group, user) pair
//   - Expense: an amount paid by one member on behalf of the group
//   - Split: one member's owed share of an expense
//
// Users are owned by the authentication layer. The ledger only ever sees an
// opaque user ID string.
//
// # Money
//
// Amounts are integer counts of the currency's minor unit (see Amount).
// Floating point never touches a stored or computed amount; decimal strings
// are converted at the edges with ParseAmount and Amount.String.
//
// # Design Principles
//
//  1. Plain data records, no behaviour beyond formatting and validation helpers
//  2. Relationships are ID strings, never pointers
//  3. Timestamps are Unix seconds; zero means "not set"
package models
