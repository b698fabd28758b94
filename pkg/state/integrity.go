package state

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks a snapshot whose cross-references disagree.
var ErrCorrupt = errors.New("state: corrupt snapshot")

// Check verifies the snapshot's cross-references: the forest is acyclic,
// every list is reachable exactly once with a parent id matching its
// position, and every placement points at a live goal and a list that
// orders it.
func (s *Snapshot) Check() error {
	if s == nil {
		return nil
	}
	reached := make(map[string]bool, len(s.Lists))
	var walk func(parentID string, ids []string) error
	walk = func(parentID string, ids []string) error {
		for _, id := range ids {
			l, ok := s.Lists[id]
			if !ok {
				return corrupt("list %q orders missing child %q", parentID, id)
			}
			if reached[id] {
				return corrupt("list %q is reachable twice", id)
			}
			reached[id] = true
			if l.ParentID != parentID {
				return corrupt("list %q has parent %q but sits under %q", id, l.ParentID, parentID)
			}
			if err := walk(id, l.ChildListIDs); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk("", s.RootListIDs); err != nil {
		return err
	}
	if len(reached) != len(s.Lists) {
		for id := range s.Lists {
			if !reached[id] {
				return corrupt("list %q is unreachable", id)
			}
		}
	}

	ordered := make(map[string]bool, len(s.Instances))
	for _, l := range s.Lists {
		for _, id := range l.InstanceIDs {
			in, ok := s.Instances[id]
			if !ok {
				return corrupt("list %q orders missing instance %q", l.ID, id)
			}
			if in.ListID != l.ID {
				return corrupt("instance %q belongs to %q but is ordered by %q", id, in.ListID, l.ID)
			}
			if ordered[id] {
				return corrupt("instance %q is ordered twice", id)
			}
			ordered[id] = true
		}
	}
	for id, in := range s.Instances {
		if !ordered[id] {
			return corrupt("instance %q is not ordered by any list", id)
		}
		if _, ok := s.Goals[in.GoalID]; !ok {
			return corrupt("instance %q points at missing goal %q", id, in.GoalID)
		}
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
