package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// DateLayout is the wire and storage format for payment dates.
const DateLayout = "2006-01-02"

// Subscription represents a recurring payment owned by a user.
type Subscription struct {
	ID                 int64          `json:"subscription_id"`
	UserID             int64          `json:"user_id"`
	Name               string         `json:"name"`
	Price              float64        `json:"price"`
	Currency           string         `json:"currency"`
	InitialPaymentDate time.Time      `json:"initial_payment_date"`
	NextPaymentDate    time.Time      `json:"next_payment_date"`
	PaymentFrequency   string         `json:"payment_frequency"`
	PaymentMethod      string         `json:"payment_method"`
	Status             string         `json:"status"`
	URL                string         `json:"url,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	ImageURL           string         `json:"image_url,omitempty"`
	Version            int64          `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	Labels             []*label.Label `json:"labels"`
}

// Payment frequencies
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Subscription statuses
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Supported currencies
const (
	CurrencyUSD = "USD"
	CurrencyJPY = "JPY"
)

// Payment methods
const (
	MethodCreditCard   = "credit_card"
	MethodBankTransfer = "bank_transfer"
	MethodPayPal       = "paypal"
	MethodApplePay     = "apple_pay"
	MethodGooglePay    = "google_pay"
)

// Rules contains the allowed value sets for subscription fields. They are
// injected at construction instead of living as package globals so tests can
// exercise boundary values without mutating shared state.
type Rules struct {
	Currencies     []string
	Statuses       []string
	Frequencies    []string
	PaymentMethods []string
}

// DefaultRules returns the production value sets.
func DefaultRules() Rules {
	return Rules{
		Currencies:     []string{CurrencyUSD, CurrencyJPY},
		Statuses:       []string{StatusTrial, StatusActive, StatusSuspended, StatusCancelled, StatusExpired},
		Frequencies:    []string{FrequencyMonthly, FrequencyQuarterly, FrequencyYearly},
		PaymentMethods: []string{MethodCreditCard, MethodBankTransfer, MethodPayPal, MethodApplePay, MethodGooglePay},
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidatePrice fails unless the subscription's price is positive.
func (r Rules) ValidatePrice(s *Subscription) error {
	if s.Price <= 0 {
		return errors.ValidationError("Price must be positive", nil)
	}
	return nil
}

// ValidateCurrency upper-cases the subscription's currency in place and
// fails unless it is in the supported set.
func (r Rules) ValidateCurrency(s *Subscription) error {
	if s.Currency != "" {
		s.Currency = strings.ToUpper(s.Currency)
	}
	if !contains(r.Currencies, s.Currency) {
		return errors.ValidationError(fmt.Sprintf("Unsupported currency: %s", s.Currency), nil)
	}
	return nil
}

// ValidateStatus fails unless the subscription's status is valid.
func (r Rules) ValidateStatus(s *Subscription) error {
	if !contains(r.Statuses, s.Status) {
		return errors.ValidationError(fmt.Sprintf("Invalid status: %s", s.Status), nil)
	}
	return nil
}

// ValidateFrequency fails unless the subscription's payment frequency is valid.
func (r Rules) ValidateFrequency(s *Subscription) error {
	if !contains(r.Frequencies, s.PaymentFrequency) {
		return errors.ValidationError(fmt.Sprintf("Invalid payment frequency: %s", s.PaymentFrequency), nil)
	}
	return nil
}

// ValidateDates fails when the next payment date precedes the initial one.
func (r Rules) ValidateDates(s *Subscription) error {
	if s.NextPaymentDate.Before(s.InitialPaymentDate) {
		return errors.ValidationError("Next payment date cannot be before initial payment date", nil)
	}
	return nil
}

// IsActive reports whether the subscription is currently active.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// LabelIDs returns the ids of the associated labels.
func (s *Subscription) LabelIDs() []int64 {
	ids := make([]int64, len(s.Labels))
	for i, l := range s.Labels {
		ids[i] = l.ID
	}
	return ids
}

// Filter contains subscription list filtering options
type Filter struct {
	Statuses []string
	Currency string
	LabelIDs []int64
}

// Costs holds a subscription's price converted to both billing horizons.
type Costs struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// CreateInput carries the fields of a subscription create request. The next
// payment date is always computed from the initial date, never supplied.
type CreateInput struct {
	Name               string
	Price              float64
	Currency           string
	InitialPaymentDate time.Time
	PaymentFrequency   string
	PaymentMethod      string
	Status             string
	URL                string
	Notes              string
	ImageURL           string
	LabelIDs           []int64
}

// UpdateInput carries the fields of a subscription update request. Nil
// pointers leave the corresponding field unchanged.
type UpdateInput struct {
	Name               *string
	Price              *float64
	Currency           *string
	InitialPaymentDate *time.Time
	PaymentFrequency   *string
	PaymentMethod      *string
	Status             *string
	URL                *string
	Notes              *string
	ImageURL           *string
	LabelIDs           []int64 // nil leaves associations unchanged
}
