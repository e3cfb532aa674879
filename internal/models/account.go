package models

import "time"

// Account represents a registered user identity.
// Identity fields are immutable once created; only the credential may change.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account credential.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// FirstName and LastName form the display name.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last credential change.
	UpdatedAt int64 `json:"updated_at"`
}

// NewAccount creates an account with the current time stamped.
// The ID is assigned by the store on insert.
func NewAccount(username, passwordHash, firstName, lastName string) *Account {
	now := time.Now().Unix()
	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisplayName returns the human-readable name for the account.
func (a *Account) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.Username
	}
}
