package label

import (
	"sort"

	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
)

// Tree provides read access to a label forest.
type Tree interface {
	// Parent returns the label with the given id, if present.
	Parent(id int64) (*Label, bool)
	// Children returns the direct children of the label with the given id.
	Children(id int64) []*Label
}

// Forest is an in-memory snapshot of one user's labels, indexed by id and by
// parent id. Children are derived from the parent links rather than kept as
// live back-references, so the structure cannot form ownership cycles.
type Forest struct {
	byID     map[int64]*Label
	byParent map[int64][]*Label
}

// NewForest builds a forest from a flat slice of labels.
func NewForest(labels []*Label) *Forest {
	f := &Forest{
		byID:     make(map[int64]*Label, len(labels)),
		byParent: make(map[int64][]*Label),
	}
	for _, l := range labels {
		f.byID[l.ID] = l
	}
	for _, l := range labels {
		if l.ParentID != nil {
			f.byParent[*l.ParentID] = append(f.byParent[*l.ParentID], l)
		}
	}
	for _, siblings := range f.byParent {
		sort.Slice(siblings, func(i, j int) bool { return siblings[i].ID < siblings[j].ID })
	}
	return f
}

// Parent implements Tree.
func (f *Forest) Parent(id int64) (*Label, bool) {
	l, ok := f.byID[id]
	return l, ok
}

// Children implements Tree.
func (f *Forest) Children(id int64) []*Label {
	return f.byParent[id]
}

// Hierarchy enforces the tree invariants of a label forest: the depth limit,
// cycle prevention, and deletion eligibility. It is pure computation over a
// Tree snapshot; persistence is the caller's concern.
type Hierarchy struct {
	limits Limits
	tree   Tree
}

// NewHierarchy creates a hierarchy checker over the given tree snapshot.
func NewHierarchy(limits Limits, tree Tree) *Hierarchy {
	return &Hierarchy{limits: limits, tree: tree}
}

// Depth returns the number of parent hops above l; roots have depth 0.
// The walk stops once it exceeds the depth limit as a safety bound against
// malformed parent links, so the result is at most MaxDepth+1.
func (h *Hierarchy) Depth(l *Label) int {
	depth := 0
	parentID := l.ParentID
	for parentID != nil {
		parent, ok := h.tree.Parent(*parentID)
		if !ok {
			break
		}
		depth++
		if depth > h.limits.MaxDepth {
			break
		}
		parentID = parent.ParentID
	}
	return depth
}

// Ancestors returns l's ancestors ordered nearest first, with the same
// defensive stop bound as Depth.
func (h *Hierarchy) Ancestors(l *Label) []*Label {
	var ancestors []*Label
	parentID := l.ParentID
	for parentID != nil {
		parent, ok := h.tree.Parent(*parentID)
		if !ok {
			break
		}
		ancestors = append(ancestors, parent)
		if len(ancestors) > h.limits.MaxDepth {
			break
		}
		parentID = parent.ParentID
	}
	return ancestors
}

// Descendants returns every label below l, in pre-order. Children only ever
// attach through validated create/update paths, so no cycle guard is needed.
func (h *Hierarchy) Descendants(l *Label) []*Label {
	var descendants []*Label
	for _, child := range h.tree.Children(l.ID) {
		descendants = append(descendants, child)
		descendants = append(descendants, h.Descendants(child)...)
	}
	return descendants
}

// IsAncestor reports whether candidate appears among other's ancestors.
func (h *Hierarchy) IsAncestor(candidate, other *Label) bool {
	for _, a := range h.Ancestors(other) {
		if a.ID == candidate.ID {
			return true
		}
	}
	return false
}

// SubtreeHeight returns the height of l's subtree: 0 for a leaf, otherwise
// one more than the tallest child subtree.
func (h *Hierarchy) SubtreeHeight(l *Label) int {
	height := 0
	for _, child := range h.tree.Children(l.ID) {
		if ch := h.SubtreeHeight(child) + 1; ch > height {
			height = ch
		}
	}
	return height
}

// ValidateDepth fails when l sits at or beyond the maximum depth.
func (h *Hierarchy) ValidateDepth(l *Label) error {
	if h.Depth(l) >= h.limits.MaxDepth {
		return errors.HierarchyTooDeep(h.limits.MaxDepth)
	}
	return nil
}

// ValidateNoCircularReference fails when assigning newParentID would make l
// its own ancestor: the candidate parent is l itself or one of l's current
// descendants. A nil newParentID is a no-op.
func (h *Hierarchy) ValidateNoCircularReference(l *Label, newParentID *int64) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == l.ID {
		return errors.CircularReference()
	}
	for _, d := range h.Descendants(l) {
		if d.ID == *newParentID {
			return errors.CircularReference()
		}
	}
	return nil
}

// CanDelete reports whether l may be deleted: system labels and labels with
// children cannot.
func (h *Hierarchy) CanDelete(l *Label) bool {
	if l.SystemLabel {
		return false
	}
	return len(h.tree.Children(l.ID)) == 0
}

// FullPath returns the hierarchical path from root to l, for display
// (e.g. "Entertainment > Movies > Action").
func (h *Hierarchy) FullPath(l *Label) string {
	ancestors := h.Ancestors(l)
	path := ""
	for i := len(ancestors) - 1; i >= 0; i-- {
		path += ancestors[i].Name + " > "
	}
	return path + l.Name
}
