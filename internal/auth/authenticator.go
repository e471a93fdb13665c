package auth

import (
	"context"

	"github.com/mmynk/budgetsync/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The service layer only depends on this abstraction, so the password
// mechanics could be swapped (passkeys, OAuth) without touching it.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, name, email, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
