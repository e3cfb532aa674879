package models

// InvitationStatus is the lifecycle state of a group invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Terminal reports whether the status permits no further transitions.
func (s InvitationStatus) Terminal() bool {
	return s == InvitationAccepted || s == InvitationDeclined
}

// GroupInvitation records a request for an account to join a group.
// Invitations transition pending -> accepted|declined exactly once;
// a later re-invite of the same account creates a new row, so the
// full invitation history of a (group, account) pair is preserved.
type GroupInvitation struct {
	// ID is the unique identifier for the invitation (UUID format).
	ID string `json:"id"`

	// GroupID is the group the invitee is asked to join.
	GroupID string `json:"group_id"`

	// AccountID is the invited account.
	AccountID string `json:"account_id"`

	// InviterID is the account that sent the invitation.
	InviterID string `json:"inviter_id"`

	// Status is pending until the invitee responds.
	Status InvitationStatus `json:"status"`

	// TimeInvited is the Unix timestamp when the invitation was sent.
	TimeInvited int64 `json:"time_invited"`
}
