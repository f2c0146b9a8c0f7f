package services

import (
	"context"
	"testing"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/testutil"
)

func newSubscriptionService(repo *testutil.MockSubscriptionRepository, labelRepo *testutil.MockLabelRepository) subscription.Service {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewSubscriptionService(repo, labelRepo, subscription.DefaultRules(), log)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func netflixInput() subscription.CreateInput {
	return subscription.CreateInput{
		Name:               "Netflix",
		Price:              15.49,
		Currency:           "USD",
		InitialPaymentDate: day(2024, time.January, 15),
		PaymentFrequency:   subscription.FrequencyMonthly,
		PaymentMethod:      subscription.MethodCreditCard,
	}
}

func TestSubscriptionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the next payment date from the initial date", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

		in := netflixInput()
		in.InitialPaymentDate = day(2024, time.January, 31)
		sub, err := svc.Create(ctx, 1, in)
		if err != nil {
			t.Fatalf("Create() returned %v", err)
		}
		if want := day(2024, time.February, 29); !sub.NextPaymentDate.Equal(want) {
			t.Errorf("next payment date = %s, want %s",
				sub.NextPaymentDate.Format(subscription.DateLayout),
				want.Format(subscription.DateLayout))
		}
		if sub.Status != subscription.StatusActive {
			t.Errorf("status = %q, want default %q", sub.Status, subscription.StatusActive)
		}
		if sub.ID == 0 {
			t.Error("id was not assigned")
		}
	})

	t.Run("rejects case-insensitive duplicate name", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

		if _, err := svc.Create(ctx, 1, netflixInput()); err != nil {
			t.Fatal(err)
		}
		in := netflixInput()
		in.Name = "netflix"
		_, err := svc.Create(ctx, 1, in)
		if !errors.Is(err, errors.ErrCodeDuplicateName) {
			t.Errorf("Create() error = %v, want code %v", err, errors.ErrCodeDuplicateName)
		}
	})

	t.Run("same name is fine for a different user", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

		if _, err := svc.Create(ctx, 1, netflixInput()); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Create(ctx, 2, netflixInput()); err != nil {
			t.Errorf("Create() for another user returned %v, want nil", err)
		}
	})

	t.Run("validates fields", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

		tests := []struct {
			name   string
			mutate func(*subscription.CreateInput)
		}{
			{name: "blank name", mutate: func(in *subscription.CreateInput) { in.Name = "  " }},
			{name: "zero price", mutate: func(in *subscription.CreateInput) { in.Price = 0 }},
			{name: "negative price", mutate: func(in *subscription.CreateInput) { in.Price = -5 }},
			{name: "unsupported currency", mutate: func(in *subscription.CreateInput) { in.Currency = "EUR" }},
			{name: "unknown status", mutate: func(in *subscription.CreateInput) { in.Status = "paused" }},
			{name: "unknown frequency", mutate: func(in *subscription.CreateInput) { in.PaymentFrequency = "weekly" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := netflixInput()
				tt.mutate(&in)
				if _, err := svc.Create(ctx, 1, in); err == nil {
					t.Error("Create() accepted an invalid input")
				}
			})
		}
	})

	t.Run("lowercase currency is normalized", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

		in := netflixInput()
		in.Currency = "usd"
		sub, err := svc.Create(ctx, 1, in)
		if err != nil {
			t.Fatalf("Create() returned %v", err)
		}
		if sub.Currency != "USD" {
			t.Errorf("currency = %q, want %q", sub.Currency, "USD")
		}
	})

	t.Run("attaches owned labels", func(t *testing.T) {
		repo := testutil.NewMockSubscriptionRepository()
		labelRepo := testutil.NewMockLabelRepository()
		svc := newSubscriptionService(repo, labelRepo)

		l := &label.Label{UserID: 1, Name: "Entertainment", Color: "#FF6B6B"}
		id, err := labelRepo.Create(ctx, l)
		if err != nil {
			t.Fatal(err)
		}

		in := netflixInput()
		in.LabelIDs = []int64{id}
		sub, err := svc.Create(ctx, 1, in)
		if err != nil {
			t.Fatalf("Create() returned %v", err)
		}
		if len(sub.Labels) != 1 || sub.Labels[0].ID != id {
			t.Errorf("labels = %v, want the single attached label", sub.Labels)
		}
	})

	t.Run("rejects labels owned by someone else", func(t *testing.T) {
		repo := testutil.NewMockSubscriptionRepository()
		labelRepo := testutil.NewMockLabelRepository()
		svc := newSubscriptionService(repo, labelRepo)

		l := &label.Label{UserID: 2, Name: "Theirs", Color: "#FF6B6B"}
		id, err := labelRepo.Create(ctx, l)
		if err != nil {
			t.Fatal(err)
		}

		in := netflixInput()
		in.LabelIDs = []int64{id}
		_, err = svc.Create(ctx, 1, in)
		if !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("Create() error = %v, want code %v", err, errors.ErrCodeValidation)
		}
	})
}

func TestSubscriptionService_Update(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc subscription.Service) *subscription.Subscription {
		t.Helper()
		sub, err := svc.Create(ctx, 1, netflixInput())
		if err != nil {
			t.Fatal(err)
		}
		return sub
	}

	t.Run("recomputes next date when the frequency changes", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		sub := create(t, svc)

		freq := subscription.FrequencyYearly
		got, err := svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{PaymentFrequency: &freq})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if want := day(2025, time.January, 15); !got.NextPaymentDate.Equal(want) {
			t.Errorf("next payment date = %s, want %s",
				got.NextPaymentDate.Format(subscription.DateLayout),
				want.Format(subscription.DateLayout))
		}
	})

	t.Run("recomputes next date when the initial date changes", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		sub := create(t, svc)

		initial := day(2024, time.March, 31)
		got, err := svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{InitialPaymentDate: &initial})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if want := day(2024, time.April, 30); !got.NextPaymentDate.Equal(want) {
			t.Errorf("next payment date = %s, want %s",
				got.NextPaymentDate.Format(subscription.DateLayout),
				want.Format(subscription.DateLayout))
		}
	})

	t.Run("keeps next date when unrelated fields change", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		sub := create(t, svc)

		price := 17.99
		got, err := svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{Price: &price})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if !got.NextPaymentDate.Equal(sub.NextPaymentDate) {
			t.Errorf("next payment date changed to %s, want unchanged %s",
				got.NextPaymentDate.Format(subscription.DateLayout),
				sub.NextPaymentDate.Format(subscription.DateLayout))
		}
		if got.Price != price {
			t.Errorf("price = %v, want %v", got.Price, price)
		}
	})

	t.Run("rejects renaming onto another subscription", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		create(t, svc)

		in := netflixInput()
		in.Name = "Spotify"
		other, err := svc.Create(ctx, 1, in)
		if err != nil {
			t.Fatal(err)
		}

		name := "NETFLIX"
		_, err = svc.Update(ctx, 1, other.ID, subscription.UpdateInput{Name: &name})
		if !errors.Is(err, errors.ErrCodeDuplicateName) {
			t.Errorf("Update() error = %v, want code %v", err, errors.ErrCodeDuplicateName)
		}
	})

	t.Run("case-only rename of itself is allowed", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		sub := create(t, svc)

		name := "NETFLIX"
		got, err := svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{Name: &name})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if got.Name != "NETFLIX" {
			t.Errorf("name = %q, want %q", got.Name, "NETFLIX")
		}
	})

	t.Run("replaces label associations", func(t *testing.T) {
		repo := testutil.NewMockSubscriptionRepository()
		labelRepo := testutil.NewMockLabelRepository()
		svc := newSubscriptionService(repo, labelRepo)
		sub := create(t, svc)

		id, err := labelRepo.Create(ctx, &label.Label{UserID: 1, Name: "Entertainment", Color: "#FF6B6B"})
		if err != nil {
			t.Fatal(err)
		}

		got, err := svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{LabelIDs: []int64{id}})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if len(got.Labels) != 1 || got.Labels[0].ID != id {
			t.Errorf("labels = %v, want the single attached label", got.Labels)
		}
		if set := repo.LabelSets[sub.ID]; len(set) != 1 || set[0] != id {
			t.Errorf("stored label set = %v, want [%d]", set, id)
		}

		// An empty, non-nil set clears the associations.
		got, err = svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{LabelIDs: []int64{}})
		if err != nil {
			t.Fatalf("Update() returned %v", err)
		}
		if len(got.Labels) != 0 {
			t.Errorf("labels = %v, want none", got.Labels)
		}
	})

	t.Run("rejects labels owned by someone else", func(t *testing.T) {
		repo := testutil.NewMockSubscriptionRepository()
		labelRepo := testutil.NewMockLabelRepository()
		svc := newSubscriptionService(repo, labelRepo)
		sub := create(t, svc)

		id, err := labelRepo.Create(ctx, &label.Label{UserID: 2, Name: "Theirs", Color: "#FF6B6B"})
		if err != nil {
			t.Fatal(err)
		}

		_, err = svc.Update(ctx, 1, sub.ID, subscription.UpdateInput{LabelIDs: []int64{id}})
		if !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("Update() error = %v, want code %v", err, errors.ErrCodeValidation)
		}
	})

	t.Run("not found for another user", func(t *testing.T) {
		svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())
		sub := create(t, svc)

		price := 1.0
		_, err := svc.Update(ctx, 2, sub.ID, subscription.UpdateInput{Price: &price})
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Update() error = %v, want code %v", err, errors.ErrCodeNotFound)
		}
	})
}

func TestSubscriptionService_Costs(t *testing.T) {
	ctx := context.Background()
	svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

	in := netflixInput()
	in.Price = 120
	in.PaymentFrequency = subscription.FrequencyYearly
	sub, err := svc.Create(ctx, 1, in)
	if err != nil {
		t.Fatal(err)
	}

	costs, err := svc.Costs(ctx, 1, sub.ID)
	if err != nil {
		t.Fatalf("Costs() returned %v", err)
	}
	if costs.Monthly != 10 || costs.Yearly != 120 {
		t.Errorf("Costs() = %+v, want monthly 10 yearly 120", costs)
	}
}

func TestSubscriptionService_TotalCosts(t *testing.T) {
	ctx := context.Background()
	svc := newSubscriptionService(testutil.NewMockSubscriptionRepository(), testutil.NewMockLabelRepository())

	subs := []subscription.CreateInput{
		{Name: "Netflix", Price: 10, Currency: "USD", InitialPaymentDate: day(2024, time.January, 1), PaymentFrequency: subscription.FrequencyMonthly},
		{Name: "Fastly", Price: 120, Currency: "USD", InitialPaymentDate: day(2024, time.January, 1), PaymentFrequency: subscription.FrequencyYearly},
		{Name: "Nikkei", Price: 3000, Currency: "JPY", InitialPaymentDate: day(2024, time.January, 1), PaymentFrequency: subscription.FrequencyMonthly},
		{Name: "Cancelled", Price: 99, Currency: "USD", InitialPaymentDate: day(2024, time.January, 1), PaymentFrequency: subscription.FrequencyMonthly, Status: subscription.StatusCancelled},
	}
	for _, in := range subs {
		if _, err := svc.Create(ctx, 1, in); err != nil {
			t.Fatal(err)
		}
	}

	totals, err := svc.TotalCosts(ctx, 1)
	if err != nil {
		t.Fatalf("TotalCosts() returned %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("TotalCosts() returned %d currencies, want 2", len(totals))
	}
	if usd := totals["USD"]; usd == nil || usd.Monthly != 20 || usd.Yearly != 240 {
		t.Errorf("USD totals = %+v, want monthly 20 yearly 240", usd)
	}
	if jpy := totals["JPY"]; jpy == nil || jpy.Monthly != 3000 || jpy.Yearly != 36000 {
		t.Errorf("JPY totals = %+v, want monthly 3000 yearly 36000", jpy)
	}
}

func TestSubscriptionService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockSubscriptionRepository()
	svc := newSubscriptionService(repo, testutil.NewMockLabelRepository())

	sub, err := svc.Create(ctx, 1, netflixInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, 2, sub.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete() for another user error = %v, want code %v", err, errors.ErrCodeNotFound)
	}
	if err := svc.Delete(ctx, 1, sub.ID); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}
	if _, ok := repo.Subscriptions[sub.ID]; ok {
		t.Error("subscription still present after Delete()")
	}
}
