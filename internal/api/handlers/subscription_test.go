package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/validator"
	"github.com/subtrack-dev/subtrack/internal/services"
	"github.com/subtrack-dev/subtrack/internal/testutil"
)

func newSubscriptionHandler() (*SubscriptionHandler, subscription.Service) {
	repo := testutil.NewMockSubscriptionRepository()
	labelRepo := testutil.NewMockLabelRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := services.NewSubscriptionService(repo, labelRepo, subscription.DefaultRules(), log)
	return NewSubscriptionHandler(service, log, validator.New()), service
}

func seedSubscription(t *testing.T, service subscription.Service, userID int64, name, status string) *subscription.Subscription {
	t.Helper()
	sub, err := service.Create(context.Background(), userID, subscription.CreateInput{
		Name:               name,
		Price:              9.99,
		Currency:           "USD",
		InitialPaymentDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		PaymentFrequency:   subscription.FrequencyMonthly,
		Status:             status,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sub
}

func TestSubscriptionHandler_List(t *testing.T) {
	handler, service := newSubscriptionHandler()

	seedSubscription(t, service, 1, "Netflix", subscription.StatusActive)
	seedSubscription(t, service, 1, "Spotify", subscription.StatusActive)
	seedSubscription(t, service, 1, "Old Paper", subscription.StatusCancelled)

	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		expectedCount  int
		expectedTotal  float64
	}{
		{
			name:           "all subscriptions",
			queryParams:    "",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedTotal:  3,
		},
		{
			name:           "filter by status",
			queryParams:    "?status=active",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
			expectedTotal:  2,
		},
		{
			name:           "multiple statuses",
			queryParams:    "?status=active,cancelled",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedTotal:  3,
		},
		{
			name:           "pagination caps the page",
			queryParams:    "?page=1&page_size=2",
			expectedStatus: http.StatusOK,
			expectedCount:  2,
			expectedTotal:  3,
		},
		{
			name:           "malformed labels filter",
			queryParams:    "?labels=a,b",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions"+tt.queryParams, nil), 1)
			rr := httptest.NewRecorder()

			handler.List(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				return
			}

			var response struct {
				Data struct {
					Data       []json.RawMessage `json:"data"`
					TotalItems float64           `json:"total_items"`
				} `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Data.Data) != tt.expectedCount {
				t.Errorf("returned %d subscriptions, want %d", len(response.Data.Data), tt.expectedCount)
			}
			if response.Data.TotalItems != tt.expectedTotal {
				t.Errorf("total_items = %v, want %v", response.Data.TotalItems, tt.expectedTotal)
			}
		})
	}
}

func TestSubscriptionHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name: "valid subscription",
			body: `{"name":"Netflix","price":15.49,"currency":"USD",
				"initial_payment_date":"2024-01-31","payment_frequency":"monthly",
				"payment_method":"credit_card"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing frequency",
			body: `{"name":"Netflix","price":15.49,"currency":"USD",
				"initial_payment_date":"2024-01-31"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad date format",
			body: `{"name":"Netflix","price":15.49,"currency":"USD",
				"initial_payment_date":"31/01/2024","payment_frequency":"monthly"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative price",
			body: `{"name":"Netflix","price":-1,"currency":"USD",
				"initial_payment_date":"2024-01-31","payment_frequency":"monthly"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown frequency",
			body: `{"name":"Netflix","price":15.49,"currency":"USD",
				"initial_payment_date":"2024-01-31","payment_frequency":"weekly"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "name over 100 characters",
			body: `{"name":"` + strings.Repeat("x", 101) + `","price":15.49,"currency":"USD",
				"initial_payment_date":"2024-01-31","payment_frequency":"monthly"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newSubscriptionHandler()

			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions",
				bytes.NewBufferString(tt.body)), 1)
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code != http.StatusCreated {
				return
			}

			var response struct {
				Data struct {
					NextPaymentDate string `json:"next_payment_date"`
				} `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatal(err)
			}
			if response.Data.NextPaymentDate != "2024-02-29" {
				t.Errorf("next_payment_date = %q, want %q", response.Data.NextPaymentDate, "2024-02-29")
			}
		})
	}
}

func TestSubscriptionHandler_Costs(t *testing.T) {
	handler, service := newSubscriptionHandler()
	sub := seedSubscription(t, service, 1, "Netflix", subscription.StatusActive)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/1/costs", nil), 1)
	req = withIDParam(req, "1")
	rr := httptest.NewRecorder()

	handler.Costs(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var response struct {
		Data struct {
			Monthly float64 `json:"monthly"`
			Yearly  float64 `json:"yearly"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	if response.Data.Monthly != sub.Price {
		t.Errorf("monthly = %v, want %v", response.Data.Monthly, sub.Price)
	}
	if response.Data.Yearly != sub.Price*12 {
		t.Errorf("yearly = %v, want %v", response.Data.Yearly, sub.Price*12)
	}
}

func TestSubscriptionHandler_TotalCosts(t *testing.T) {
	handler, service := newSubscriptionHandler()
	seedSubscription(t, service, 1, "Netflix", subscription.StatusActive)
	seedSubscription(t, service, 1, "Spotify", subscription.StatusActive)
	seedSubscription(t, service, 1, "Cancelled", subscription.StatusCancelled)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/costs", nil), 1)
	rr := httptest.NewRecorder()

	handler.TotalCosts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var response struct {
		Data map[string]struct {
			Monthly float64 `json:"monthly"`
			Yearly  float64 `json:"yearly"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	usd, ok := response.Data["USD"]
	if !ok {
		t.Fatalf("no USD entry in %v", response.Data)
	}
	if want := 9.99 * 2; usd.Monthly != want {
		t.Errorf("USD monthly = %v, want %v", usd.Monthly, want)
	}
}

func TestSubscriptionHandler_Delete(t *testing.T) {
	handler, service := newSubscriptionHandler()
	sub := seedSubscription(t, service, 1, "Netflix", subscription.StatusActive)

	req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/subscriptions/1", nil), 1)
	req = withIDParam(req, "1")
	rr := httptest.NewRecorder()

	handler.Delete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if _, err := service.Get(context.Background(), 1, sub.ID); err == nil {
		t.Error("subscription still retrievable after delete")
	}
}
