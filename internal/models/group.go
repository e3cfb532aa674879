package models

// FriendGroup represents a named collection of accounts sharing expenses.
// A group owns zero or more bills and zero or more memberships.
type FriendGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// GroupMember is the membership fact linking an account to a group.
// At most one row exists per (group, account) pair.
type GroupMember struct {
	GroupID   string `json:"group_id"`
	AccountID string `json:"account_id"`

	// JoinedAt is the Unix timestamp when the account joined the group.
	JoinedAt int64 `json:"joined_at"`
}
