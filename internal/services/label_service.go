package services

import (
	"context"
	"strings"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/metrics"
)

// LabelService implements label.Service
type LabelService struct {
	repo   label.Repository
	limits label.Limits
	logger *logger.Logger
}

// NewLabelService creates a new label service
func NewLabelService(repo label.Repository, limits label.Limits, log *logger.Logger) label.Service {
	return &LabelService{
		repo:   repo,
		limits: limits,
		logger: log,
	}
}

// hierarchy loads the user's full label set and wraps it in a checker.
func (s *LabelService) hierarchy(ctx context.Context, userID int64) (*label.Hierarchy, error) {
	all, err := s.repo.ListByUser(ctx, userID, label.Filter{})
	if err != nil {
		return nil, err
	}
	return label.NewHierarchy(s.limits, label.NewForest(all)), nil
}

// Get retrieves a label with its usage count
func (s *LabelService) Get(ctx context.Context, userID, id int64) (*label.WithUsage, error) {
	return s.repo.GetByIDWithUsage(ctx, userID, id)
}

// List retrieves labels with usage counts, narrowed by filter
func (s *LabelService) List(ctx context.Context, userID int64, filter label.Filter) ([]*label.WithUsage, error) {
	return s.repo.ListByUserWithUsage(ctx, userID, filter)
}

// Create creates a new label under an optional parent
func (s *LabelService) Create(ctx context.Context, userID int64, in label.CreateInput) (*label.Label, error) {
	name := strings.TrimSpace(in.Name)

	existing, err := s.repo.FindByNameAndParent(ctx, userID, name, in.ParentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.DuplicateName("label")
	}

	if in.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, userID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	l := &label.Label{
		UserID:      userID,
		ParentID:    in.ParentID,
		Name:        name,
		Color:       in.Color,
		SystemLabel: in.SystemLabel,
	}

	if err := l.ValidateName(s.limits); err != nil {
		return nil, err
	}
	if err := l.ValidateColor(); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		h, err := s.hierarchy(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := h.ValidateDepth(l); err != nil {
			metrics.RecordHierarchyRejection("too_deep")
			return nil, err
		}
	}

	id, err := s.repo.Create(ctx, l)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create label")
		return nil, err
	}
	l.ID = id

	metrics.RecordLabelMutation("create")
	s.logger.WithFields(map[string]interface{}{
		"label_id": id,
		"user_id":  userID,
		"name":     l.Name,
	}).Info("Label created")

	return l, nil
}

// Update changes a label's name, color, and/or parent. Checks run in a fixed
// order: system-label guard, parent reassignment (existence, cycle, depth),
// name uniqueness against the resulting parent, then field validation.
func (s *LabelService) Update(ctx context.Context, userID, id int64, in label.UpdateInput) (*label.Label, error) {
	l, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if l.SystemLabel {
		return nil, errors.SystemLabelReadonly()
	}

	if in.Parent.Set {
		if in.Parent.ID != nil {
			newParent, err := s.repo.GetByID(ctx, userID, *in.Parent.ID)
			if err != nil {
				return nil, err
			}

			h, err := s.hierarchy(ctx, userID)
			if err != nil {
				return nil, err
			}
			if err := h.ValidateNoCircularReference(l, in.Parent.ID); err != nil {
				metrics.RecordHierarchyRejection("circular")
				return nil, err
			}
			// The moved subtree must fit under the new parent in full.
			if h.Depth(newParent)+1+h.SubtreeHeight(l) >= s.limits.MaxDepth {
				metrics.RecordHierarchyRejection("too_deep")
				return nil, errors.HierarchyTooDeep(s.limits.MaxDepth)
			}
		}
		l.ParentID = in.Parent.ID
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		dup, err := s.repo.FindByNameAndParent(ctx, userID, name, l.ParentID)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != l.ID {
			return nil, errors.DuplicateName("label")
		}
		l.Name = name
	}

	if in.Color != nil {
		l.Color = *in.Color
	}

	if err := l.ValidateName(s.limits); err != nil {
		return nil, err
	}
	if err := l.ValidateColor(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update label")
		return nil, err
	}

	metrics.RecordLabelMutation("update")
	s.logger.WithFields(map[string]interface{}{
		"label_id": id,
		"user_id":  userID,
	}).Info("Label updated")

	return l, nil
}

// Delete deletes a label. System labels and labels with children are refused.
func (s *LabelService) Delete(ctx context.Context, userID, id int64) error {
	l, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if l.SystemLabel {
		return errors.SystemLabelReadonly()
	}

	h, err := s.hierarchy(ctx, userID)
	if err != nil {
		return err
	}
	if len(h.Descendants(l)) > 0 {
		return errors.CannotDeleteWithChildren()
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete label")
		return err
	}

	metrics.RecordLabelMutation("delete")
	s.logger.WithFields(map[string]interface{}{
		"label_id": id,
		"user_id":  userID,
	}).Info("Label deleted")

	return nil
}

// SeedDefaults creates the default system labels for a new user.
func (s *LabelService) SeedDefaults(ctx context.Context, userID int64) error {
	for i, name := range label.DefaultNames {
		l := &label.Label{
			UserID:      userID,
			Name:        name,
			Color:       label.DefaultColors[i],
			SystemLabel: true,
		}
		if _, err := s.repo.Create(ctx, l); err != nil {
			s.logger.ErrorWithErr(err, "Failed to seed default labels")
			return err
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"count":   len(label.DefaultNames),
	}).Info("Default labels seeded")

	return nil
}
