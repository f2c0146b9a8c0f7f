package handlers

import (
	"net/http"
	"strconv"

	"github.com/subtrack-dev/subtrack/internal/api/dto"
	"github.com/subtrack-dev/subtrack/internal/api/middleware"
	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/utils"
	"github.com/subtrack-dev/subtrack/internal/pkg/validator"
)

// LabelHandler handles label-related requests
type LabelHandler struct {
	service   label.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(service label.Service, log *logger.Logger, val *validator.Validator) *LabelHandler {
	return &LabelHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// parseListFilter interprets the parent_id query parameter: absent means all
// labels, the literal "null" means root labels only, a number means the
// children of that label. Anything else is rejected.
func parseListFilter(r *http.Request) (label.Filter, error) {
	if !r.URL.Query().Has("parent_id") {
		return label.Filter{}, nil
	}

	raw := r.URL.Query().Get("parent_id")
	if raw == "null" {
		return label.Filter{RootOnly: true}, nil
	}

	parentID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return label.Filter{}, errors.InvalidArgument("Invalid parent_id parameter")
	}
	return label.Filter{ParentID: &parentID}, nil
}

// List returns the user's labels with usage counts.
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	filter, err := parseListFilter(r)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list labels")
		return
	}

	labels, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list labels")
		return
	}

	result := make([]*dto.LabelDTO, 0, len(labels))
	for _, l := range labels {
		result = append(result, dto.FromLabelWithUsage(l))
	}

	utils.WriteSuccess(w, http.StatusOK, result)
}

// Get returns a single label with its usage count.
func (h *LabelHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid label ID")
		return
	}

	l, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get label")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromLabelWithUsage(l))
}

// Create creates a new label.
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req dto.CreateLabelRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	l, err := h.service.Create(r.Context(), userID, label.CreateInput{
		Name:     req.Name,
		Color:    req.Color,
		ParentID: req.ParentID,
	})
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create label")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.FromLabel(l, 0))
}

// Update changes a label's name, color, and/or parent.
func (h *LabelHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid label ID")
		return
	}

	var req dto.UpdateLabelRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	l, err := h.service.Update(r.Context(), userID, id, label.UpdateInput{
		Name:  req.Name,
		Color: req.Color,
		Parent: label.ParentPatch{
			Set: req.ParentID.Set,
			ID:  req.ParentID.Value,
		},
	})
	if err != nil {
		utils.WriteAppError(w, err, "Failed to update label")
		return
	}

	updated, err := h.service.Get(r.Context(), userID, l.ID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to load label")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.FromLabelWithUsage(updated))
}

// Delete removes a label.
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	id, err := idParam(r, "id")
	if err != nil {
		utils.WriteAppError(w, err, "Invalid label ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete label")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
