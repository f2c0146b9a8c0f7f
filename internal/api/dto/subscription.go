package dto

import (
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// CreateSubscriptionRequest represents a subscription create request. The
// next payment date is computed server-side and cannot be supplied.
type CreateSubscriptionRequest struct {
	Name               string  `json:"name" validate:"required,max=100"`
	Price              float64 `json:"price" validate:"required,gt=0"`
	Currency           string  `json:"currency" validate:"required"`
	InitialPaymentDate string  `json:"initial_payment_date" validate:"required,datetime=2006-01-02"`
	PaymentFrequency   string  `json:"payment_frequency" validate:"required,oneof=monthly quarterly yearly"`
	PaymentMethod      string  `json:"payment_method,omitempty" validate:"omitempty,oneof=credit_card bank_transfer paypal apple_pay google_pay"`
	Status             string  `json:"status,omitempty" validate:"omitempty,oneof=trial active suspended cancelled expired"`
	URL                string  `json:"url,omitempty" validate:"omitempty,url"`
	Notes              string  `json:"notes,omitempty"`
	ImageURL           string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Labels             []int64 `json:"labels,omitempty"`
}

// UpdateSubscriptionRequest represents a subscription update request. Absent
// fields are left unchanged; a labels array replaces the association set.
type UpdateSubscriptionRequest struct {
	Name               *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Price              *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Currency           *string  `json:"currency,omitempty"`
	InitialPaymentDate *string  `json:"initial_payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PaymentFrequency   *string  `json:"payment_frequency,omitempty" validate:"omitempty,oneof=monthly quarterly yearly"`
	PaymentMethod      *string  `json:"payment_method,omitempty" validate:"omitempty,oneof=credit_card bank_transfer paypal apple_pay google_pay"`
	Status             *string  `json:"status,omitempty" validate:"omitempty,oneof=trial active suspended cancelled expired"`
	URL                *string  `json:"url,omitempty" validate:"omitempty,url"`
	Notes              *string  `json:"notes,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Labels             []int64  `json:"labels,omitempty"`
}

// ParseDate parses a payment date in the wire format.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(subscription.DateLayout, value)
	if err != nil {
		return time.Time{}, errors.ValidationError("Invalid date format, expected YYYY-MM-DD", nil)
	}
	return t, nil
}

// SubscriptionDTO represents a subscription in API responses
type SubscriptionDTO struct {
	ID                 int64       `json:"subscription_id"`
	Name               string      `json:"name"`
	Price              float64     `json:"price"`
	Currency           string      `json:"currency"`
	InitialPaymentDate string      `json:"initial_payment_date"`
	NextPaymentDate    string      `json:"next_payment_date"`
	PaymentFrequency   string      `json:"payment_frequency"`
	PaymentMethod      string      `json:"payment_method,omitempty"`
	Status             string      `json:"status"`
	URL                string      `json:"url,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	ImageURL           string      `json:"image_url,omitempty"`
	Labels             []*LabelDTO `json:"labels"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// FromSubscription converts a domain subscription to its API representation.
func FromSubscription(s *subscription.Subscription) *SubscriptionDTO {
	labels := make([]*LabelDTO, 0, len(s.Labels))
	for _, l := range s.Labels {
		labels = append(labels, FromLabel(l, 0))
	}

	return &SubscriptionDTO{
		ID:                 s.ID,
		Name:               s.Name,
		Price:              s.Price,
		Currency:           s.Currency,
		InitialPaymentDate: s.InitialPaymentDate.Format(subscription.DateLayout),
		NextPaymentDate:    s.NextPaymentDate.Format(subscription.DateLayout),
		PaymentFrequency:   s.PaymentFrequency,
		PaymentMethod:      s.PaymentMethod,
		Status:             s.Status,
		URL:                s.URL,
		Notes:              s.Notes,
		ImageURL:           s.ImageURL,
		Labels:             labels,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// CostsDTO represents cost conversions in API responses
type CostsDTO struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}
