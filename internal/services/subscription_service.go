package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo      subscription.Repository
	labelRepo label.Repository
	rules     subscription.Rules
	logger    *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo subscription.Repository, labelRepo label.Repository, rules subscription.Rules, log *logger.Logger) subscription.Service {
	return &SubscriptionService{
		repo:      repo,
		labelRepo: labelRepo,
		rules:     rules,
		logger:    log,
	}
}

// resolveLabels loads each id as a label owned by the user. A missing or
// foreign label fails the whole set.
func (s *SubscriptionService) resolveLabels(ctx context.Context, userID int64, ids []int64) ([]*label.Label, error) {
	labels := make([]*label.Label, 0, len(ids))
	for _, id := range ids {
		l, err := s.labelRepo.GetByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return nil, errors.ValidationError(
					fmt.Sprintf("Label with ID %d not found or access denied", id), nil)
			}
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func (s *SubscriptionService) validate(sub *subscription.Subscription) error {
	if err := s.rules.ValidatePrice(sub); err != nil {
		return err
	}
	if err := s.rules.ValidateCurrency(sub); err != nil {
		return err
	}
	if err := s.rules.ValidateStatus(sub); err != nil {
		return err
	}
	return nil
}

// Get retrieves a subscription by ID
func (s *SubscriptionService) Get(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List retrieves subscriptions with filters, sorting, and pagination
func (s *SubscriptionService) List(ctx context.Context, userID int64, filter subscription.Filter, sortBy, order string, limit, offset int) ([]*subscription.Subscription, int64, error) {
	return s.repo.List(ctx, userID, filter, sortBy, order, limit, offset)
}

// Create creates a new subscription. The next payment date is always derived
// from the initial date and frequency, never taken from the caller.
func (s *SubscriptionService) Create(ctx context.Context, userID int64, in subscription.CreateInput) (*subscription.Subscription, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.ValidationError("Subscription name is required", nil)
	}

	existing, err := s.repo.FindByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.DuplicateName("subscription")
	}

	sub := &subscription.Subscription{
		UserID:             userID,
		Name:               name,
		Price:              in.Price,
		Currency:           in.Currency,
		InitialPaymentDate: in.InitialPaymentDate,
		PaymentFrequency:   in.PaymentFrequency,
		PaymentMethod:      in.PaymentMethod,
		Status:             in.Status,
		URL:                in.URL,
		Notes:              in.Notes,
		ImageURL:           in.ImageURL,
	}
	if sub.Status == "" {
		sub.Status = subscription.StatusActive
	}

	if err := s.validate(sub); err != nil {
		return nil, err
	}
	if err := s.rules.ValidateFrequency(sub); err != nil {
		return nil, err
	}

	next, err := subscription.NextPaymentDate(sub.PaymentFrequency, sub.InitialPaymentDate)
	if err != nil {
		return nil, err
	}
	sub.NextPaymentDate = next

	if err := s.rules.ValidateDates(sub); err != nil {
		return nil, err
	}

	if len(in.LabelIDs) > 0 {
		labels, err := s.resolveLabels(ctx, userID, in.LabelIDs)
		if err != nil {
			return nil, err
		}
		sub.Labels = labels
	}

	id, err := s.repo.Create(ctx, sub)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create subscription")
		return nil, err
	}
	sub.ID = id

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"user_id":         userID,
		"name":            sub.Name,
	}).Info("Subscription created")

	return sub, nil
}

// Update updates an existing subscription. Label associations are replaced
// first, then field changes are applied and validated; the next payment date
// is recomputed when the frequency or initial date changed.
func (s *SubscriptionService) Update(ctx context.Context, userID, id int64, in subscription.UpdateInput) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.LabelIDs != nil {
		labels, err := s.resolveLabels(ctx, userID, in.LabelIDs)
		if err != nil {
			return nil, err
		}
		sub.Labels = labels
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, errors.ValidationError("Subscription name is required", nil)
		}
		if !strings.EqualFold(name, sub.Name) {
			existing, err := s.repo.FindByName(ctx, userID, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, errors.DuplicateName("subscription")
			}
		}
		sub.Name = name
	}

	if in.Price != nil {
		sub.Price = *in.Price
	}
	if in.Currency != nil {
		sub.Currency = *in.Currency
	}
	if in.InitialPaymentDate != nil {
		sub.InitialPaymentDate = *in.InitialPaymentDate
	}
	if in.PaymentFrequency != nil {
		sub.PaymentFrequency = *in.PaymentFrequency
	}
	if in.PaymentMethod != nil {
		sub.PaymentMethod = *in.PaymentMethod
	}
	if in.Status != nil {
		sub.Status = *in.Status
	}
	if in.URL != nil {
		sub.URL = *in.URL
	}
	if in.Notes != nil {
		sub.Notes = *in.Notes
	}
	if in.ImageURL != nil {
		sub.ImageURL = *in.ImageURL
	}

	if err := s.validate(sub); err != nil {
		return nil, err
	}

	if in.PaymentFrequency != nil || in.InitialPaymentDate != nil {
		next, err := subscription.NextPaymentDate(sub.PaymentFrequency, sub.InitialPaymentDate)
		if err != nil {
			return nil, err
		}
		sub.NextPaymentDate = next
	}

	if err := s.rules.ValidateDates(sub); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update subscription")
		return nil, err
	}

	if in.LabelIDs != nil {
		if err := s.repo.ReplaceLabels(ctx, sub.ID, in.LabelIDs); err != nil {
			s.logger.ErrorWithErr(err, "Failed to replace subscription labels")
			return nil, err
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"user_id":         userID,
	}).Info("Subscription updated")

	return sub, nil
}

// Delete performs a hard delete of the subscription
func (s *SubscriptionService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete subscription")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"user_id":         userID,
	}).Info("Subscription deleted")

	return nil
}

// Costs returns the monthly and yearly cost of a single subscription.
func (s *SubscriptionService) Costs(ctx context.Context, userID, id int64) (*subscription.Costs, error) {
	sub, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	monthly, err := sub.MonthlyCost()
	if err != nil {
		return nil, err
	}
	yearly, err := sub.YearlyCost()
	if err != nil {
		return nil, err
	}
	return &subscription.Costs{Monthly: monthly, Yearly: yearly}, nil
}

// TotalCosts aggregates the user's active subscriptions by currency.
func (s *SubscriptionService) TotalCosts(ctx context.Context, userID int64) (map[string]*subscription.Costs, error) {
	subs, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*subscription.Costs)
	for _, sub := range subs {
		monthly, err := sub.MonthlyCost()
		if err != nil {
			return nil, err
		}
		yearly, err := sub.YearlyCost()
		if err != nil {
			return nil, err
		}

		t, ok := totals[sub.Currency]
		if !ok {
			t = &subscription.Costs{}
			totals[sub.Currency] = t
		}
		t.Monthly += monthly
		t.Yearly += yearly
	}
	return totals, nil
}
