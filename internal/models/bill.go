package models

// Bill is a resolvable unit of spend within a group, composed of one or
// more payments. A bill transitions from open to resolved exactly once,
// when every debtor share under it is covered by accepted settlements.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// GroupID is the group this bill belongs to.
	GroupID string `json:"group_id"`

	// Description is free text, empty allowed.
	Description string `json:"description"`

	// Resolved is true once all debts under the bill are settled.
	Resolved bool `json:"resolved"`

	// TimeResolved is the Unix timestamp of the resolution transition.
	// Zero while the bill is open; never changed once set.
	TimeResolved int64 `json:"time_resolved"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`
}

// Payment is a single outlay by one account within a bill. Its amount
// always equals the sum of its debtor shares.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// BillID is the bill this payment belongs to.
	BillID string `json:"bill_id"`

	// PayerID is the account that made the outlay.
	PayerID string `json:"payer_id"`

	// Amount is the payment total in minor currency units.
	Amount int64 `json:"amount"`

	// Description is free text, empty allowed.
	Description string `json:"description"`

	// Date is the Unix timestamp of the outlay.
	Date int64 `json:"date"`
}

// DebtorShare is the portion of a payment one account owes.
// One row per (payment, account) pair; AmountOwed is always positive.
type DebtorShare struct {
	PaymentID string `json:"payment_id"`
	AccountID string `json:"account_id"`

	// AmountOwed is this account's share in minor currency units.
	AmountOwed int64 `json:"amount_owed"`
}
