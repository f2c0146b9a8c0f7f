package subscription

import (
	"testing"
	"time"
)

func TestRules_ValidateCurrency(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		currency string
		want     string
		wantErr  bool
	}{
		{name: "usd", currency: "USD", want: "USD"},
		{name: "lowercase upper-cased in place", currency: "usd", want: "USD"},
		{name: "jpy", currency: "jpy", want: "JPY"},
		{name: "unsupported", currency: "EUR", wantErr: true},
		{name: "empty", currency: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{Currency: tt.currency}
			err := rules.ValidateCurrency(s)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCurrency() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && s.Currency != tt.want {
				t.Errorf("ValidateCurrency() normalized = %q, want %q", s.Currency, tt.want)
			}
		})
	}
}

func TestRules_ValidatePrice(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name    string
		price   float64
		wantErr bool
	}{
		{name: "positive", price: 9.99},
		{name: "zero rejected", price: 0, wantErr: true},
		{name: "negative rejected", price: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{Price: tt.price}
			if err := rules.ValidatePrice(s); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrice() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRules_ValidateStatusAndFrequency(t *testing.T) {
	rules := DefaultRules()

	for _, status := range rules.Statuses {
		if err := rules.ValidateStatus(&Subscription{Status: status}); err != nil {
			t.Errorf("ValidateStatus(%q) returned %v", status, err)
		}
	}
	if err := rules.ValidateStatus(&Subscription{Status: "paused"}); err == nil {
		t.Error("ValidateStatus() accepted an unknown status")
	}

	for _, freq := range rules.Frequencies {
		if err := rules.ValidateFrequency(&Subscription{PaymentFrequency: freq}); err != nil {
			t.Errorf("ValidateFrequency(%q) returned %v", freq, err)
		}
	}
	if err := rules.ValidateFrequency(&Subscription{PaymentFrequency: "weekly"}); err == nil {
		t.Error("ValidateFrequency() accepted an unknown frequency")
	}
}

func TestRules_ValidateDates(t *testing.T) {
	rules := DefaultRules()
	initial := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	ok := &Subscription{InitialPaymentDate: initial, NextPaymentDate: initial.AddDate(0, 1, 0)}
	if err := rules.ValidateDates(ok); err != nil {
		t.Errorf("ValidateDates() returned %v for a later next date", err)
	}

	same := &Subscription{InitialPaymentDate: initial, NextPaymentDate: initial}
	if err := rules.ValidateDates(same); err != nil {
		t.Errorf("ValidateDates() returned %v for an equal next date", err)
	}

	bad := &Subscription{InitialPaymentDate: initial, NextPaymentDate: initial.AddDate(0, 0, -1)}
	if err := rules.ValidateDates(bad); err == nil {
		t.Error("ValidateDates() accepted a next date before the initial date")
	}
}
