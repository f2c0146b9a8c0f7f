package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/subtrack-dev/subtrack/internal/api/dto"
	"github.com/subtrack-dev/subtrack/internal/api/middleware"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/utils"
	"github.com/subtrack-dev/subtrack/internal/pkg/validator"
)

// SubscriptionHandler handles subscription-related requests
type SubscriptionHandler struct {
	service   subscription.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(service subscription.Service, log *logger.Logger, val *validator.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

func parseSubscriptionFilter(r *http.Request) (subscription.Filter, error) {
	var filter subscription.Filter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		filter.Statuses = strings.Split(status, ",")
	}
	filter.Currency = q.Get("currency")

	if labels := q.Get("labels"); labels != "" {
		for _, raw := range strings.Split(labels, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return filter, errors.InvalidArgument("Invalid labels parameter")
			}
			filter.LabelIDs = append(filter.LabelIDs, id)
		}
	}

	return filter, nil
}

// List returns a page of the user's subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	filter, err := parseSubscriptionFilter(r)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list subscriptions")
		return
	}

	pagination := utils.ParsePaginationParams(r)
	sortBy := r.URL.Query().Get("sort_by")
	order := r.URL.Query().Get("order")

	subs, total, err := h.service.List(r.Context(), userID, filter, sortBy, order, pagination.PageSize, pagination.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list subscriptions")
		return
	}

	result := make([]*dto.SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		result = append(result, dto.FromSubscription(s))
	}

	utils.WriteSuccess(w, http.StatusOK,
		utils.NewPaginatedResponse(result, pagination.Page, pagination.PageSize, total))
}

// Get returns a single subscription.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	sub, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromSubscription(sub))
}

// Create creates a new subscription.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.CreateSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	initial, err := dto.ParseDate(req.InitialPaymentDate)
	if err != nil {
		utils.WriteAppError(w, err, "Invalid initial payment date")
		return
	}

	sub, err := h.service.Create(r.Context(), userID, subscription.CreateInput{
		Name:               req.Name,
		Price:              req.Price,
		Currency:           req.Currency,
		InitialPaymentDate: initial,
		PaymentFrequency:   req.PaymentFrequency,
		PaymentMethod:      req.PaymentMethod,
		Status:             req.Status,
		URL:                req.URL,
		Notes:              req.Notes,
		ImageURL:           req.ImageURL,
		LabelIDs:           req.Labels,
	})
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.FromSubscription(sub))
}

// Update updates an existing subscription.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	var req dto.UpdateSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	var initial *time.Time
	if req.InitialPaymentDate != nil {
		parsed, err := dto.ParseDate(*req.InitialPaymentDate)
		if err != nil {
			utils.WriteAppError(w, err, "Invalid initial payment date")
			return
		}
		initial = &parsed
	}

	sub, err := h.service.Update(r.Context(), userID, id, subscription.UpdateInput{
		Name:               req.Name,
		Price:              req.Price,
		Currency:           req.Currency,
		InitialPaymentDate: initial,
		PaymentFrequency:   req.PaymentFrequency,
		PaymentMethod:      req.PaymentMethod,
		Status:             req.Status,
		URL:                req.URL,
		Notes:              req.Notes,
		ImageURL:           req.ImageURL,
		LabelIDs:           req.Labels,
	})
	if err != nil {
		utils.WriteAppError(w, err, "Failed to update subscription")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromSubscription(sub))
}

// Delete removes a subscription.
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Costs returns the monthly and yearly cost of a subscription.
func (h *SubscriptionHandler) Costs(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid subscription ID")
		return
	}

	costs, err := h.service.Costs(r.Context(), userID, id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to compute costs")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.CostsDTO{Monthly: costs.Monthly, Yearly: costs.Yearly})
}

// TotalCosts returns the user's aggregate costs grouped by currency.
func (h *SubscriptionHandler) TotalCosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	totals, err := h.service.TotalCosts(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to compute total costs")
		return
	}

	result := make(map[string]dto.CostsDTO, len(totals))
	for currency, costs := range totals {
		result[currency] = dto.CostsDTO{Monthly: costs.Monthly, Yearly: costs.Yearly}
	}

	utils.WriteSuccess(w, http.StatusOK, result)
}
