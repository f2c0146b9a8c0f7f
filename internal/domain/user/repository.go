package user

import "context"

// Repository defines the user data access interface
type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail and GetByUsername return (nil, nil) when no match exists.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}
