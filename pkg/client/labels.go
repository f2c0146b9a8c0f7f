package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LabelService provides label management operations
type LabelService struct {
	client *Client
}

// CreateLabelRequest represents a label create request
type CreateLabelRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateLabelRequest represents a label update request
type UpdateLabelRequest struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	ParentID *int64  `json:"parent_id,omitempty"`
}

// List retrieves all labels.
func (s *LabelService) List(ctx context.Context) ([]*Label, error) {
	var labels []*Label
	if err := s.client.doRequest(ctx, "GET", "/api/v1/labels", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// ListRoots retrieves labels without a parent.
func (s *LabelService) ListRoots(ctx context.Context) ([]*Label, error) {
	var labels []*Label
	if err := s.client.doRequest(ctx, "GET", "/api/v1/labels?parent_id=null", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// ListChildren retrieves the direct children of a label.
func (s *LabelService) ListChildren(ctx context.Context, parentID int64) ([]*Label, error) {
	var labels []*Label
	path := "/api/v1/labels?parent_id=" + url.QueryEscape(strconv.FormatInt(parentID, 10))
	if err := s.client.doRequest(ctx, "GET", path, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// Get retrieves a single label
func (s *LabelService) Get(ctx context.Context, id int64) (*Label, error) {
	var l Label
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/labels/%d", id), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create creates a new label
func (s *LabelService) Create(ctx context.Context, req CreateLabelRequest) (*Label, error) {
	var l Label
	if err := s.client.doRequest(ctx, "POST", "/api/v1/labels", req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update updates a label
func (s *LabelService) Update(ctx context.Context, id int64, req UpdateLabelRequest) (*Label, error) {
	var l Label
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/labels/%d", id), req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Delete deletes a label
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/labels/%d", id), nil, nil)
}
