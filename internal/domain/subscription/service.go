package subscription

import "context"

// Service defines the subscription business logic interface
type Service interface {
	Get(ctx context.Context, userID, id int64) (*Subscription, error)
	List(ctx context.Context, userID int64, filter Filter, sortBy, order string, limit, offset int) ([]*Subscription, int64, error)
	Create(ctx context.Context, userID int64, in CreateInput) (*Subscription, error)
	Update(ctx context.Context, userID, id int64, in UpdateInput) (*Subscription, error)
	Delete(ctx context.Context, userID, id int64) error

	// Costs returns the per-month and per-year conversion of a single
	// subscription's price.
	Costs(ctx context.Context, userID, id int64) (*Costs, error)

	// TotalCosts aggregates monthly and yearly costs across the user's
	// active subscriptions, grouped by currency.
	TotalCosts(ctx context.Context, userID int64) (map[string]*Costs, error)
}
