package client

import "time"

// User represents a user account
type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Label represents a subscription label
type Label struct {
	ID          int64     `json:"label_id"`
	ParentID    *int64    `json:"parent_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	SystemLabel bool      `json:"system_label"`
	UsageCount  int64     `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Subscription represents a recurring payment
type Subscription struct {
	ID                 int64     `json:"subscription_id"`
	Name               string    `json:"name"`
	Price              float64   `json:"price"`
	Currency           string    `json:"currency"`
	InitialPaymentDate string    `json:"initial_payment_date"`
	NextPaymentDate    string    `json:"next_payment_date"`
	PaymentFrequency   string    `json:"payment_frequency"`
	PaymentMethod      string    `json:"payment_method,omitempty"`
	Status             string    `json:"status"`
	URL                string    `json:"url,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	Labels             []*Label  `json:"labels"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Costs holds a price converted to both billing horizons
type Costs struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// Page represents a paginated listing
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}
