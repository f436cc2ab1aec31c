package models

// Group represents a set of users sharing a ledger.
// Groups are never deleted.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Description is optional free text.
	Description string

	// CreatedBy is the user ID of the creator. The creator is always the
	// group's first member.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership records that a user participates in a group's ledger.
// There is at most one membership per (GroupID, UserID) pair.
type Membership struct {
	GroupID string
	UserID  string

	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64
}

// GroupSummary is a group together with its current member count.
type GroupSummary struct {
	Group
	MemberCount int
}
