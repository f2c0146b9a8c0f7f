package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SubscriptionService provides subscription management operations
type SubscriptionService struct {
	client *Client
}

// CreateSubscriptionRequest represents a subscription create request
type CreateSubscriptionRequest struct {
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Currency           string  `json:"currency"`
	InitialPaymentDate string  `json:"initial_payment_date"`
	PaymentFrequency   string  `json:"payment_frequency"`
	PaymentMethod      string  `json:"payment_method,omitempty"`
	Status             string  `json:"status,omitempty"`
	URL                string  `json:"url,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
	Labels             []int64 `json:"labels,omitempty"`
}

// UpdateSubscriptionRequest represents a subscription update request
type UpdateSubscriptionRequest struct {
	Name               *string  `json:"name,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	Currency           *string  `json:"currency,omitempty"`
	InitialPaymentDate *string  `json:"initial_payment_date,omitempty"`
	PaymentFrequency   *string  `json:"payment_frequency,omitempty"`
	PaymentMethod      *string  `json:"payment_method,omitempty"`
	Status             *string  `json:"status,omitempty"`
	URL                *string  `json:"url,omitempty"`
	Notes              *string  `json:"notes,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Labels             []int64  `json:"labels,omitempty"`
}

// ListOptions narrows and orders a subscription listing.
type ListOptions struct {
	Statuses []string
	Currency string
	LabelIDs []int64
	SortBy   string
	Order    string
	Page     int
	PageSize int
}

func (o ListOptions) query() string {
	q := url.Values{}
	if len(o.Statuses) > 0 {
		q.Set("status", strings.Join(o.Statuses, ","))
	}
	if o.Currency != "" {
		q.Set("currency", o.Currency)
	}
	if len(o.LabelIDs) > 0 {
		ids := make([]string, len(o.LabelIDs))
		for i, id := range o.LabelIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		q.Set("labels", strings.Join(ids, ","))
	}
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List retrieves a page of subscriptions
func (s *SubscriptionService) List(ctx context.Context, opts ListOptions) (*Page[*Subscription], error) {
	var page Page[*Subscription]
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions"+opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves a single subscription
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/subscriptions/%d", id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create creates a new subscription
func (s *SubscriptionService) Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", "/api/v1/subscriptions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update updates a subscription
func (s *SubscriptionService) Update(ctx context.Context, id int64, req UpdateSubscriptionRequest) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/subscriptions/%d", id), req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Delete deletes a subscription
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/subscriptions/%d", id), nil, nil)
}

// Costs retrieves the monthly and yearly cost of a subscription
func (s *SubscriptionService) Costs(ctx context.Context, id int64) (*Costs, error) {
	var costs Costs
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/subscriptions/%d/costs", id), nil, &costs); err != nil {
		return nil, err
	}
	return &costs, nil
}

// TotalCosts retrieves aggregate costs grouped by currency
func (s *SubscriptionService) TotalCosts(ctx context.Context) (map[string]Costs, error) {
	var totals map[string]Costs
	if err := s.client.doRequest(ctx, "GET", "/api/v1/subscriptions/costs", nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}
