package worker

import (
	"context"
	"testing"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/testutil"
)

func TestBillingRoller_Sweep(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	overdue := &subscription.Subscription{
		UserID:           1,
		Name:             "Netflix",
		Price:            10,
		Currency:         "USD",
		PaymentFrequency: subscription.FrequencyMonthly,
		Status:           subscription.StatusActive,
		NextPaymentDate:  today.AddDate(0, -3, 0),
	}
	current := &subscription.Subscription{
		UserID:           1,
		Name:             "Spotify",
		Price:            5,
		Currency:         "USD",
		PaymentFrequency: subscription.FrequencyMonthly,
		Status:           subscription.StatusActive,
		NextPaymentDate:  today.AddDate(0, 0, 10),
	}
	cancelled := &subscription.Subscription{
		UserID:           1,
		Name:             "Old Paper",
		Price:            3,
		Currency:         "USD",
		PaymentFrequency: subscription.FrequencyMonthly,
		Status:           subscription.StatusCancelled,
		NextPaymentDate:  today.AddDate(0, -3, 0),
	}
	for _, sub := range []*subscription.Subscription{overdue, current, cancelled} {
		if _, err := repo.Create(ctx, sub); err != nil {
			t.Fatal(err)
		}
	}

	roller := NewBillingRoller(repo, "0 2 * * *", log)
	roller.Sweep(ctx)

	rolled := repo.Subscriptions[overdue.ID]
	if rolled.NextPaymentDate.Before(today) {
		t.Errorf("overdue subscription still behind: next = %s, today = %s",
			rolled.NextPaymentDate.Format(subscription.DateLayout),
			today.Format(subscription.DateLayout))
	}
	// A three-months-overdue monthly subscription must not be pushed past
	// the first due date on or after today.
	if limit := today.AddDate(0, 1, 1); rolled.NextPaymentDate.After(limit) {
		t.Errorf("overdue subscription overshot: next = %s",
			rolled.NextPaymentDate.Format(subscription.DateLayout))
	}

	if got := repo.Subscriptions[current.ID].NextPaymentDate; !got.Equal(current.NextPaymentDate) {
		t.Errorf("future-dated subscription moved to %s", got.Format(subscription.DateLayout))
	}
	if got := repo.Subscriptions[cancelled.ID].NextPaymentDate; !got.Equal(cancelled.NextPaymentDate) {
		t.Errorf("cancelled subscription moved to %s", got.Format(subscription.DateLayout))
	}
}

func TestBillingRoller_SweepIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockSubscriptionRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	sub := &subscription.Subscription{
		UserID:           1,
		Name:             "Netflix",
		Price:            10,
		Currency:         "USD",
		PaymentFrequency: subscription.FrequencyMonthly,
		Status:           subscription.StatusActive,
		NextPaymentDate:  today.AddDate(0, 0, -1),
	}
	if _, err := repo.Create(ctx, sub); err != nil {
		t.Fatal(err)
	}

	roller := NewBillingRoller(repo, "0 2 * * *", log)
	roller.Sweep(ctx)
	first := repo.Subscriptions[sub.ID].NextPaymentDate

	roller.Sweep(ctx)
	second := repo.Subscriptions[sub.ID].NextPaymentDate

	if !second.Equal(first) {
		t.Errorf("second sweep moved the date from %s to %s",
			first.Format(subscription.DateLayout), second.Format(subscription.DateLayout))
	}
}
