package label

import "context"

// Service defines the interface for label business logic
type Service interface {
	// Get retrieves a label with its usage count
	Get(ctx context.Context, userID, id int64) (*WithUsage, error)

	// List retrieves labels with usage counts, narrowed by filter
	List(ctx context.Context, userID int64, filter Filter) ([]*WithUsage, error)

	// Create creates a new label under an optional parent
	Create(ctx context.Context, userID int64, in CreateInput) (*Label, error)

	// Update changes a label's name, color, and/or parent
	Update(ctx context.Context, userID, id int64, in UpdateInput) (*Label, error)

	// Delete deletes a label. System labels and labels with children are refused.
	Delete(ctx context.Context, userID, id int64) error

	// SeedDefaults creates the default system labels for a new user
	SeedDefaults(ctx context.Context, userID int64) error
}
