package auth

import (
	"context"

	"splitledger/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, passkeys, OAuth, etc.) without changing the service layer.
type Authenticator interface {
	// Register creates a new account with the given username and credential.
	// Returns the created account or an error if registration fails.
	Register(ctx context.Context, username, credential, firstName, lastName string) (*models.Account, error)

	// Authenticate verifies the credentials and returns the account if successful.
	Authenticate(ctx context.Context, username, credential string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, complexity, format).
	ValidateCredential(credential string) error
}
