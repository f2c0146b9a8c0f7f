package label

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// Label represents a node in a user's label forest. Labels organize
// subscriptions into nested categories; a label has at most one parent,
// which must belong to the same user.
type Label struct {
	ID          int64     `json:"label_id"`
	UserID      int64     `json:"user_id"`
	ParentID    *int64    `json:"parent_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	SystemLabel bool      `json:"system_label"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WithUsage pairs a label with its live-computed usage count (the number of
// subscriptions currently associated with it). The count is aggregated at
// read time from the association table, never cached.
type WithUsage struct {
	Label
	UsageCount int64 `json:"usage_count"`
}

// Limits contains the validation limits for labels. They are injected at
// construction instead of living as package globals so tests can exercise
// boundary values without mutating shared state.
type Limits struct {
	MaxDepth   int
	MaxNameLen int
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{MaxDepth: 5, MaxNameLen: 100}
}

// Default system labels seeded for every new user.
var (
	DefaultNames = []string{
		"Entertainment",
		"Productivity",
		"Education",
		"Health",
		"Finance",
		"Shopping",
		"Communication",
		"Development",
	}

	DefaultColors = []string{
		"#FF6B6B",
		"#4ECDC4",
		"#45B7D1",
		"#96CEB4",
		"#FFEAA7",
		"#DDA0DD",
		"#98D8C8",
		"#F7DC6F",
	}
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// NormalizeColor normalizes a color to uppercase #RRGGBB form: surrounding
// whitespace is trimmed, a missing # prefix is added, and 3-digit shorthand
// is expanded (#abc -> #AABBCC). An empty input passes through unchanged.
func NormalizeColor(color string) string {
	if color == "" {
		return color
	}

	color = strings.ToUpper(strings.TrimSpace(color))
	if color == "" {
		return color
	}

	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}

	// Expand #RGB to #RRGGBB
	if len(color) == 4 {
		color = "#" +
			strings.Repeat(string(color[1]), 2) +
			strings.Repeat(string(color[2]), 2) +
			strings.Repeat(string(color[3]), 2)
	}

	return color
}

// ValidateColor normalizes the label's color in place and reports whether it
// is a valid #RRGGBB value.
func (l *Label) ValidateColor() error {
	if l.Color == "" {
		return errors.ValidationError("Label color is required", nil)
	}

	l.Color = NormalizeColor(l.Color)

	if !hexColorPattern.MatchString(l.Color) {
		return errors.ValidationError("Invalid hex color format", nil)
	}
	return nil
}

// ValidateName reports whether the label's name is present and within limits.
func (l *Label) ValidateName(limits Limits) error {
	trimmed := strings.TrimSpace(l.Name)
	if trimmed == "" {
		return errors.ValidationError("Label name is required", nil)
	}
	if utf8.RuneCountInString(trimmed) > limits.MaxNameLen {
		return errors.ValidationError("Label name is too long", nil)
	}
	return nil
}

// Filter selects which labels a list operation returns.
// The zero value returns all of a user's labels; RootOnly returns labels
// without a parent; a non-nil ParentID returns the children of that label.
type Filter struct {
	ParentID *int64
	RootOnly bool
}

// CreateInput carries the fields of a label create request.
type CreateInput struct {
	Name        string
	Color       string
	ParentID    *int64
	SystemLabel bool
}

// ParentPatch is a tri-state parent assignment for updates: not set (leave
// the parent alone), set with a nil ID (detach from parent), or set with an
// ID (re-parent under that label).
type ParentPatch struct {
	Set bool
	ID  *int64
}

// UpdateInput carries the fields of a label update request. Nil pointers
// leave the corresponding field unchanged.
type UpdateInput struct {
	Name   *string
	Color  *string
	Parent ParentPatch
}
