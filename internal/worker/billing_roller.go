package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/metrics"
)

// BillingRoller advances overdue next payment dates on a cron schedule, so
// that a subscription whose payment date passed rolls forward to the next
// cycle without waiting for a user request.
type BillingRoller struct {
	repo     subscription.Repository
	schedule string
	logger   *logger.Logger
	cron     *cron.Cron
}

// NewBillingRoller creates a new billing roller worker
func NewBillingRoller(repo subscription.Repository, schedule string, log *logger.Logger) *BillingRoller {
	return &BillingRoller{
		repo:     repo,
		schedule: schedule,
		logger:   log,
	}
}

// Start schedules the rollover sweep and runs one immediately.
func (b *BillingRoller) Start(ctx context.Context) error {
	b.logger.WithFields(map[string]interface{}{
		"schedule": b.schedule,
	}).Info("Starting billing roller worker")

	b.cron = cron.New()
	if _, err := b.cron.AddFunc(b.schedule, func() { b.Sweep(ctx) }); err != nil {
		return err
	}
	b.cron.Start()

	b.Sweep(ctx)

	go func() {
		<-ctx.Done()
		b.cron.Stop()
		b.logger.Info("Billing roller worker stopped")
	}()

	return nil
}

// Sweep rolls every overdue active subscription forward until its next
// payment date is today or later.
func (b *BillingRoller) Sweep(ctx context.Context) {
	start := time.Now()
	today := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	due, err := b.repo.ListDue(ctx, today)
	if err != nil {
		b.logger.ErrorWithErr(err, "Failed to list due subscriptions")
		return
	}

	rolled := 0
	for _, sub := range due {
		if err := b.rollForward(ctx, sub, today); err != nil {
			b.logger.WithFields(map[string]interface{}{
				"subscription_id": sub.ID,
				"user_id":         sub.UserID,
			}).ErrorWithErr(err, "Failed to roll subscription forward")
			continue
		}
		rolled++
	}

	metrics.ObserveBillingSweep(time.Since(start))
	b.logger.WithFields(map[string]interface{}{
		"due":      len(due),
		"rolled":   rolled,
		"duration": time.Since(start).Milliseconds(),
	}).Info("Billing rollover sweep completed")
}

func (b *BillingRoller) rollForward(ctx context.Context, sub *subscription.Subscription, today time.Time) error {
	for sub.NextPaymentDate.Before(today) {
		if err := sub.Roll(); err != nil {
			return err
		}
	}

	if err := b.repo.Update(ctx, sub); err != nil {
		return err
	}

	metrics.RecordBillingRollover(sub.PaymentFrequency)
	return nil
}
