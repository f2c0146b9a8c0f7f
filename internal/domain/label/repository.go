package label

import "context"

// Repository defines the interface for label data access
type Repository interface {
	// Create creates a new label
	Create(ctx context.Context, l *Label) (int64, error)

	// GetByID retrieves a label owned by the given user
	GetByID(ctx context.Context, userID, id int64) (*Label, error)

	// GetByIDWithUsage retrieves a label with its live usage count
	GetByIDWithUsage(ctx context.Context, userID, id int64) (*WithUsage, error)

	// FindByNameAndParent finds a label by user, parent, and case-insensitive
	// name. Returns (nil, nil) when no such label exists.
	FindByNameAndParent(ctx context.Context, userID int64, name string, parentID *int64) (*Label, error)

	// ListByUser retrieves labels for a user, narrowed by filter
	ListByUser(ctx context.Context, userID int64, filter Filter) ([]*Label, error)

	// ListByUserWithUsage retrieves labels with usage counts, narrowed by filter
	ListByUserWithUsage(ctx context.Context, userID int64, filter Filter) ([]*WithUsage, error)

	// Update persists a modified label. It performs an optimistic version
	// check and fails with a conflict when the row changed concurrently.
	Update(ctx context.Context, l *Label) error

	// Delete deletes a label. Subscription associations are removed by the
	// storage layer's cascading rules.
	Delete(ctx context.Context, userID, id int64) error
}
