// Package goal defines the goals, lists and placements that make up a
// goal journal.
package goal

import (
	"slices"
)

// Goal is the atomic task unit. The same Goal may be placed in several lists
// through Instances.
type Goal struct {
	ID                string    `json:"id"`
	Text              string    `json:"text"`
	Completed         bool      `json:"completed,omitempty"`
	CreatedAt         Timestamp `json:"createdAt"`
	UpdatedAt         Timestamp `json:"updatedAt"`
	AssociatedListIDs []string  `json:"associatedListIds,omitempty"`
}

// List is a named container of goal placements, arranged in a forest.
type List struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ParentID     string    `json:"parentId,omitempty"`
	ChildListIDs []string  `json:"childListIds,omitempty"`
	InstanceIDs  []string  `json:"instanceIds,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// Instance places one Goal inside one List.
type Instance struct {
	ID     string `json:"id"`
	GoalID string `json:"goalId"`
	ListID string `json:"listId"`
}

// IsAssociated reports whether the goal is cross-linked into listID.
func (g *Goal) IsAssociated(listID string) bool {
	return slices.Contains(g.AssociatedListIDs, listID)
}

// Associate adds listID to the association set. It reports whether the set
// changed.
func (g *Goal) Associate(listID string) bool {
	if g.IsAssociated(listID) {
		return false
	}
	g.AssociatedListIDs = append(g.AssociatedListIDs, listID)
	return true
}

// Disassociate removes listID from the association set. It reports whether
// the set changed.
func (g *Goal) Disassociate(listID string) bool {
	idx := slices.Index(g.AssociatedListIDs, listID)
	if idx < 0 {
		return false
	}
	g.AssociatedListIDs = slices.Delete(g.AssociatedListIDs, idx, idx+1)
	if len(g.AssociatedListIDs) == 0 {
		g.AssociatedListIDs = nil
	}
	return true
}

func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	cp := *g
	cp.AssociatedListIDs = slices.Clone(g.AssociatedListIDs)
	return &cp
}

func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	cp := *l
	cp.ChildListIDs = slices.Clone(l.ChildListIDs)
	cp.InstanceIDs = slices.Clone(l.InstanceIDs)
	return &cp
}

func (i *Instance) Clone() *Instance {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

// IsRoot reports whether the list sits at the top level.
func (l *List) IsRoot() bool {
	return l.ParentID == ""
}
