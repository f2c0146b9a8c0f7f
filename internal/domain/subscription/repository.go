package subscription

import (
	"context"
	"time"
)

// Repository defines the subscription data access interface
type Repository interface {
	// Create persists a new subscription with its label associations and
	// returns the assigned id.
	Create(ctx context.Context, sub *Subscription) (int64, error)

	// GetByID returns the subscription with its labels attached. Ownership
	// mismatches surface as not-found.
	GetByID(ctx context.Context, userID, id int64) (*Subscription, error)

	// FindByName performs a case-insensitive name lookup within a user's
	// subscriptions. Returns (nil, nil) when no match exists.
	FindByName(ctx context.Context, userID int64, name string) (*Subscription, error)

	// List returns a page of the user's subscriptions matching the filter,
	// along with the total count before pagination.
	List(ctx context.Context, userID int64, filter Filter, sortBy, order string, limit, offset int) ([]*Subscription, int64, error)

	// ListActive returns every user's active subscriptions, used when
	// aggregating costs.
	ListActive(ctx context.Context, userID int64) ([]*Subscription, error)

	// ListDue returns active subscriptions across all users whose next
	// payment date is strictly before the given instant.
	ListDue(ctx context.Context, before time.Time) ([]*Subscription, error)

	// Update persists field changes guarded by the row version. A stale
	// version yields a conflict error.
	Update(ctx context.Context, sub *Subscription) error

	// ReplaceLabels swaps the subscription's label associations for the
	// given set atomically.
	ReplaceLabels(ctx context.Context, subID int64, labelIDs []int64) error

	// Delete removes the subscription and its label associations.
	Delete(ctx context.Context, userID, id int64) error
}
