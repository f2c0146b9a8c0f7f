package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/domain/user"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[int64]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int64]*user.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	return u.ID, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, u := range m.Users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	delete(m.Users, id)
	return nil
}

// MockLabelRepository is a mock implementation of label.Repository
type MockLabelRepository struct {
	Labels      map[int64]*label.Label
	Usage       map[int64]int64
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
}

func NewMockLabelRepository() *MockLabelRepository {
	return &MockLabelRepository{
		Labels: make(map[int64]*label.Label),
		Usage:  make(map[int64]int64),
		NextID: 1,
	}
}

func (m *MockLabelRepository) Create(ctx context.Context, l *label.Label) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	l.ID = m.NextID
	m.NextID++
	cp := *l
	m.Labels[l.ID] = &cp
	return l.ID, nil
}

func (m *MockLabelRepository) GetByID(ctx context.Context, userID, id int64) (*label.Label, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	l, ok := m.Labels[id]
	if !ok || l.UserID != userID {
		return nil, errors.NotFound("Label")
	}
	cp := *l
	return &cp, nil
}

func (m *MockLabelRepository) GetByIDWithUsage(ctx context.Context, userID, id int64) (*label.WithUsage, error) {
	l, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &label.WithUsage{Label: *l, UsageCount: m.Usage[id]}, nil
}

func (m *MockLabelRepository) FindByNameAndParent(ctx context.Context, userID int64, name string, parentID *int64) (*label.Label, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, l := range m.Labels {
		if l.UserID != userID || !strings.EqualFold(l.Name, name) {
			continue
		}
		if sameParent(l.ParentID, parentID) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockLabelRepository) ListByUser(ctx context.Context, userID int64, filter label.Filter) ([]*label.Label, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var result []*label.Label
	for _, l := range m.Labels {
		if l.UserID != userID {
			continue
		}
		if filter.RootOnly && l.ParentID != nil {
			continue
		}
		if filter.ParentID != nil && !sameParent(l.ParentID, filter.ParentID) {
			continue
		}
		cp := *l
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockLabelRepository) ListByUserWithUsage(ctx context.Context, userID int64, filter label.Filter) ([]*label.WithUsage, error) {
	labels, err := m.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]*label.WithUsage, 0, len(labels))
	for _, l := range labels {
		result = append(result, &label.WithUsage{Label: *l, UsageCount: m.Usage[l.ID]})
	}
	return result, nil
}

func (m *MockLabelRepository) Update(ctx context.Context, l *label.Label) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Labels[l.ID]
	if !ok || existing.UserID != l.UserID {
		return errors.NotFound("Label")
	}
	if existing.Version != l.Version {
		return errors.Conflict("Label was modified concurrently")
	}
	l.Version++
	cp := *l
	m.Labels[l.ID] = &cp
	return nil
}

func (m *MockLabelRepository) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	l, ok := m.Labels[id]
	if !ok || l.UserID != userID {
		return errors.NotFound("Label")
	}
	delete(m.Labels, id)
	delete(m.Usage, id)
	return nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	Subscriptions map[int64]*subscription.Subscription
	LabelSets     map[int64][]int64
	NextID        int64
	CreateError   error
	GetError      error
	UpdateError   error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subscriptions: make(map[int64]*subscription.Subscription),
		LabelSets:     make(map[int64][]int64),
		NextID:        1,
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	sub.ID = m.NextID
	m.NextID++
	cp := *sub
	m.Subscriptions[sub.ID] = &cp
	m.LabelSets[sub.ID] = sub.LabelIDs()
	return sub.ID, nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	sub, ok := m.Subscriptions[id]
	if !ok || sub.UserID != userID {
		return nil, errors.NotFound("Subscription")
	}
	cp := *sub
	return &cp, nil
}

func (m *MockSubscriptionRepository) FindByName(ctx context.Context, userID int64, name string) (*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, sub := range m.Subscriptions {
		if sub.UserID == userID && strings.EqualFold(sub.Name, name) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) List(ctx context.Context, userID int64, filter subscription.Filter, sortBy, order string, limit, offset int) ([]*subscription.Subscription, int64, error) {
	if m.GetError != nil {
		return nil, 0, m.GetError
	}
	var result []*subscription.Subscription
	for _, sub := range m.Subscriptions {
		if sub.UserID != userID {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, sub.Status) {
			continue
		}
		if filter.Currency != "" && !strings.EqualFold(filter.Currency, sub.Currency) {
			continue
		}
		if !m.hasLabels(sub.ID, filter.LabelIDs) {
			continue
		}
		cp := *sub
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (m *MockSubscriptionRepository) ListActive(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var result []*subscription.Subscription
	for _, sub := range m.Subscriptions {
		if sub.UserID == userID && sub.IsActive() {
			cp := *sub
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) ListDue(ctx context.Context, before time.Time) ([]*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var result []*subscription.Subscription
	for _, sub := range m.Subscriptions {
		if sub.IsActive() && sub.NextPaymentDate.Before(before) {
			cp := *sub
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Subscriptions[sub.ID]
	if !ok || existing.UserID != sub.UserID {
		return errors.NotFound("Subscription")
	}
	if existing.Version != sub.Version {
		return errors.Conflict("Subscription was modified concurrently")
	}
	sub.Version++
	cp := *sub
	m.Subscriptions[sub.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepository) ReplaceLabels(ctx context.Context, subID int64, labelIDs []int64) error {
	m.LabelSets[subID] = append([]int64(nil), labelIDs...)
	return nil
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID, id int64) error {
	sub, ok := m.Subscriptions[id]
	if !ok || sub.UserID != userID {
		return errors.NotFound("Subscription")
	}
	delete(m.Subscriptions, id)
	delete(m.LabelSets, id)
	return nil
}

func (m *MockSubscriptionRepository) hasLabels(subID int64, labelIDs []int64) bool {
	for _, want := range labelIDs {
		found := false
		for _, have := range m.LabelSets[subID] {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
