package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
)

// OptionalInt64 distinguishes an absent JSON field from an explicit null.
// Set is true when the field appeared in the request body; Value is nil when
// the field was null.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CreateLabelRequest represents a label create request
type CreateLabelRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Color    string `json:"color" validate:"required"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateLabelRequest represents a label update request. A parent_id of null
// detaches the label from its parent; an absent parent_id leaves it alone.
type UpdateLabelRequest struct {
	Name     *string       `json:"name,omitempty" validate:"omitempty,max=100"`
	Color    *string       `json:"color,omitempty"`
	ParentID OptionalInt64 `json:"parent_id"`
}

// LabelDTO represents a label in API responses
type LabelDTO struct {
	ID          int64     `json:"label_id"`
	ParentID    *int64    `json:"parent_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	SystemLabel bool      `json:"system_label"`
	UsageCount  int64     `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromLabel converts a domain label to its API representation.
func FromLabel(l *label.Label, usageCount int64) *LabelDTO {
	return &LabelDTO{
		ID:          l.ID,
		ParentID:    l.ParentID,
		Name:        l.Name,
		Color:       l.Color,
		SystemLabel: l.SystemLabel,
		UsageCount:  usageCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// FromLabelWithUsage converts an annotated label to its API representation.
func FromLabelWithUsage(l *label.WithUsage) *LabelDTO {
	return FromLabel(&l.Label, l.UsageCount)
}
