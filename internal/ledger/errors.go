package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure so the API layer can map it to an
// actionable response without parsing messages.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidSplit      Kind = "invalid_split"
	KindInvalidParty      Kind = "invalid_party"
	KindOverpayment       Kind = "overpayment"
	KindAlreadyMember     Kind = "already_member"
	KindAlreadyInvited    Kind = "already_invited"
	KindInvalidTransition Kind = "invalid_transition"
)

// Error is a domain failure detected before (or instead of) a write.
// It carries the offending field and amount where they are known.
type Error struct {
	Kind    Kind
	Field   string
	Amount  int64
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("ledger: %s (%s): %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("ledger: %s: %s", e.Kind, e.Message)
}

// KindOf returns the Kind of err, or the empty string when err is not a
// ledger error (e.g. an infrastructure failure).
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// NotFound reports a missing entity referenced by field.
func NotFound(field, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness or composite-key violation on field.
func Conflict(field, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidSplit reports shares that do not sum to the payment amount,
// or a non-positive amount. amount is the offending figure.
func InvalidSplit(field string, amount int64, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSplit, Field: field, Amount: amount, Message: fmt.Sprintf(format, args...)}
}

// InvalidParty reports an actor that is not a member of the relevant group.
func InvalidParty(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidParty, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Overpayment reports a settlement exceeding the outstanding debt.
// amount is the requested settlement amount.
func Overpayment(amount int64, format string, args ...any) *Error {
	return &Error{Kind: KindOverpayment, Field: "amount", Amount: amount, Message: fmt.Sprintf(format, args...)}
}

// AlreadyMember reports an invitee that already belongs to the group.
func AlreadyMember(accountID string) *Error {
	return &Error{Kind: KindAlreadyMember, Field: "account_id", Message: fmt.Sprintf("account %s is already a member", accountID)}
}

// AlreadyInvited reports a pending invitation for the same (group, account) pair.
func AlreadyInvited(accountID string) *Error {
	return &Error{Kind: KindAlreadyInvited, Field: "account_id", Message: fmt.Sprintf("account %s already has a pending invitation", accountID)}
}

// InvalidTransition reports a state change from a terminal state.
func InvalidTransition(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Field: field, Message: fmt.Sprintf(format, args...)}
}
