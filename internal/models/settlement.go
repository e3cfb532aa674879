package models

// Settlement records a transfer against a bill from a debtor to the
// account they owe. It is pending until the receiver accepts it; only
// accepted settlements count toward balances and bill resolution.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// BillID is the bill the transfer is recorded against.
	BillID string `json:"bill_id"`

	// PayerID is the debtor settling up.
	PayerID string `json:"payer_id"`

	// ReceiverID is the account being paid back.
	ReceiverID string `json:"receiver_id"`

	// Amount is the transfer amount in minor currency units.
	Amount int64 `json:"amount"`

	// Accepted is set once by the receiver; terminal.
	Accepted bool `json:"accepted"`

	// TimeAccepted is the Unix timestamp of acceptance, zero while pending.
	TimeAccepted int64 `json:"time_accepted"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}
