package user

import "context"

// Service defines the user business logic interface
type Service interface {
	// Register creates an account and seeds its default labels.
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Authenticate verifies credentials and returns the account.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)
}
