package state

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/goals/pkg/annotate"
	"tableflip.dev/goals/pkg/goal"
)

// View answers read-only questions about one committed snapshot. Returned
// entities are copies.
type View struct {
	snap *Snapshot
}

// NewView wraps snap. The caller must not modify snap afterwards.
func NewView(snap *Snapshot) *View {
	if snap == nil {
		snap = NewSnapshot()
	}
	return &View{snap: snap}
}

func (v *View) List(id string) (*goal.List, bool) {
	l, ok := v.snap.Lists[id]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

func (v *View) Goal(id string) (*goal.Goal, bool) {
	g, ok := v.snap.Goals[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func (v *View) Instance(id string) (*goal.Instance, bool) {
	in, ok := v.snap.Instances[id]
	if !ok {
		return nil, false
	}
	return in.Clone(), true
}

// Roots returns the top-level lists in order.
func (v *View) Roots() []*goal.List {
	return v.lists(v.snap.RootListIDs)
}

// Children returns the direct children of a list in order.
func (v *View) Children(id string) []*goal.List {
	l, ok := v.snap.Lists[id]
	if !ok {
		return nil
	}
	return v.lists(l.ChildListIDs)
}

func (v *View) lists(ids []string) []*goal.List {
	out := make([]*goal.List, 0, len(ids))
	for _, id := range ids {
		if l, ok := v.snap.Lists[id]; ok {
			out = append(out, l.Clone())
		}
	}
	return out
}

// Node is one row of a flattened forest.
type Node struct {
	List  *goal.List
	Depth int
}

// Tree flattens the forest depth-first in display order.
func (v *View) Tree() []Node {
	var out []Node
	seen := make(map[string]bool)
	var walk func(ids []string, depth int)
	walk = func(ids []string, depth int) {
		for _, id := range ids {
			l, ok := v.snap.Lists[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, Node{List: l.Clone(), Depth: depth})
			walk(l.ChildListIDs, depth+1)
		}
	}
	walk(v.snap.RootListIDs, 0)
	return out
}

// Ancestors returns the parents of a list, nearest first.
func (v *View) Ancestors(id string) []*goal.List {
	var out []*goal.List
	l, ok := v.snap.Lists[id]
	if !ok {
		return nil
	}
	seen := map[string]bool{id: true}
	for p := l.ParentID; p != "" && !seen[p]; {
		seen[p] = true
		parent, ok := v.snap.Lists[p]
		if !ok {
			break
		}
		out = append(out, parent.Clone())
		p = parent.ParentID
	}
	return out
}

// Path returns the names from the top level down to the list, inclusive.
func (v *View) Path(id string) []string {
	l, ok := v.snap.Lists[id]
	if !ok {
		return nil
	}
	anc := v.Ancestors(id)
	out := make([]string, 0, len(anc)+1)
	for i := len(anc) - 1; i >= 0; i-- {
		out = append(out, anc[i].Name)
	}
	return append(out, l.Name)
}

// FindByPath resolves names from the top level down, matching each segment
// case-insensitively. The first match at each level wins.
func (v *View) FindByPath(segments ...string) (*goal.List, bool) {
	ids := v.snap.RootListIDs
	var found *goal.List
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		found = nil
		for _, id := range ids {
			if l, ok := v.snap.Lists[id]; ok && strings.EqualFold(l.Name, seg) {
				found = l
				break
			}
		}
		if found == nil {
			return nil, false
		}
		ids = found.ChildListIDs
	}
	if found == nil {
		return nil, false
	}
	return found.Clone(), true
}

// Descendants returns every list below id, depth-first.
func (v *View) Descendants(id string) []*goal.List {
	l, ok := v.snap.Lists[id]
	if !ok {
		return nil
	}
	var out []*goal.List
	seen := map[string]bool{id: true}
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, cid := range ids {
			c, ok := v.snap.Lists[cid]
			if !ok || seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, c.Clone())
			walk(c.ChildListIDs)
		}
	}
	walk(l.ChildListIDs)
	return out
}

// Filter narrows Items. The zero value matches everything.
type Filter struct {
	HideCompleted bool
	Tag           string
	Query         string
	UpdatedSince  time.Time
}

func (f Filter) match(g *goal.Goal, parsed annotate.Result) bool {
	if f.HideCompleted && g.Completed {
		return false
	}
	if f.Tag != "" {
		tag := strings.ToLower(strings.TrimPrefix(f.Tag, "#"))
		hit := false
		for _, t := range parsed.Tags {
			if t == tag {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(g.Text), strings.ToLower(f.Query)) {
		return false
	}
	if !f.UpdatedSince.IsZero() {
		last := g.UpdatedAt.Time
		if last.IsZero() {
			last = g.CreatedAt.Time
		}
		if last.Before(f.UpdatedSince) {
			return false
		}
	}
	return true
}

// Item is one placement in a list together with its goal and parsed text.
type Item struct {
	Instance *goal.Instance
	Goal     *goal.Goal
	Parsed   annotate.Result
}

// Items returns a list's placements in order. Dangling instances are skipped.
func (v *View) Items(listID string, f Filter) []Item {
	l, ok := v.snap.Lists[listID]
	if !ok {
		return nil
	}
	var out []Item
	for _, id := range l.InstanceIDs {
		in, ok := v.snap.Instances[id]
		if !ok {
			continue
		}
		g, ok := v.snap.Goals[in.GoalID]
		if !ok {
			continue
		}
		parsed := annotate.Parse(g.Text, annotate.Options{StripFields: true})
		if !f.match(g, parsed) {
			continue
		}
		out = append(out, Item{Instance: in.Clone(), Goal: g.Clone(), Parsed: parsed})
	}
	return out
}

// TagCount is how many goals carry a tag.
type TagCount struct {
	Tag   string
	Count int
}

// TagIndex counts tags across all goals, most used first, then by name.
func (v *View) TagIndex() []TagCount {
	counts := make(map[string]int)
	for _, g := range v.snap.Goals {
		for _, t := range annotate.Parse(g.Text, annotate.Options{}).Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Associated returns goals cross-linked to a list, ordered by creation.
func (v *View) Associated(listID string) []*goal.Goal {
	var out []*goal.Goal
	for _, g := range v.snap.Goals {
		if g.IsAssociated(listID) {
			out = append(out, g.Clone())
		}
	}
	sortGoals(out)
	return out
}

// Orphans returns goals with no placement, ordered by creation.
func (v *View) Orphans() []*goal.Goal {
	placed := make(map[string]bool, len(v.snap.Instances))
	for _, in := range v.snap.Instances {
		placed[in.GoalID] = true
	}
	var out []*goal.Goal
	for id, g := range v.snap.Goals {
		if !placed[id] {
			out = append(out, g.Clone())
		}
	}
	sortGoals(out)
	return out
}

// PlacementsOf returns the ids of lists holding the goal, in forest order.
func (v *View) PlacementsOf(goalID string) []string {
	holding := make(map[string]bool)
	for _, in := range v.snap.Instances {
		if in.GoalID == goalID {
			holding[in.ListID] = true
		}
	}
	var out []string
	for _, n := range v.Tree() {
		if holding[n.List.ID] {
			out = append(out, n.List.ID)
		}
	}
	return out
}

// RatingOrder is the order SortByRating would commit for a list.
func (v *View) RatingOrder(listID string) []string {
	return RatingOrder(v.snap, listID)
}

// Snapshot returns a deep copy of the viewed state.
func (v *View) Snapshot() *Snapshot {
	return v.snap.Clone()
}

func sortGoals(gs []*goal.Goal) {
	sort.SliceStable(gs, func(i, j int) bool {
		a, b := gs[i].CreatedAt.Time, gs[j].CreatedAt.Time
		if !a.Equal(b) {
			return a.Before(b)
		}
		return gs[i].ID < gs[j].ID
	})
}
