package state

import (
	"math"
	"slices"
	"sort"

	"tableflip.dev/goals/pkg/annotate"
	"tableflip.dev/goals/pkg/goal"
)

func (a SortByRating) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	order := RatingOrder(tx.next, l.ID)
	return ReorderInstances{ListID: l.ID, InstanceIDs: order}.apply(tx)
}

// RatingOrder computes the rating order of a list's instances: rated goals by
// descending rating, then unrated goals, then completed goals. Ties and the
// unrated and completed groups keep their current relative order. Instances
// whose goal is missing sort with the unrated group.
func RatingOrder(snap *Snapshot, listID string) []string {
	l, ok := snap.Lists[listID]
	if !ok {
		return nil
	}
	type rated struct {
		id    string
		value float64
	}
	var (
		withRating []rated
		unrated    []string
		completed  []string
	)
	for _, id := range l.InstanceIDs {
		g := goalOf(snap, id)
		switch {
		case g != nil && g.Completed:
			completed = append(completed, id)
		case g == nil:
			unrated = append(unrated, id)
		default:
			if r := annotate.RatingOf(g.Text); r != nil {
				withRating = append(withRating, rated{id: id, value: r.Value})
			} else {
				unrated = append(unrated, id)
			}
		}
	}
	sort.SliceStable(withRating, func(i, j int) bool {
		return ratedBefore(withRating[i].value, withRating[j].value)
	})

	out := make([]string, 0, len(l.InstanceIDs))
	for _, r := range withRating {
		out = append(out, r.id)
	}
	out = append(out, unrated...)
	out = append(out, completed...)
	return slices.Clip(out)
}

// ratedBefore orders descending with +Inf first and -Inf last.
func ratedBefore(a, b float64) bool {
	switch {
	case math.IsInf(a, 1):
		return !math.IsInf(b, 1)
	case math.IsInf(b, -1):
		return !math.IsInf(a, -1)
	}
	return a > b
}

func goalOf(snap *Snapshot, instanceID string) *goal.Goal {
	in, ok := snap.Instances[instanceID]
	if !ok {
		return nil
	}
	return snap.Goals[in.GoalID]
}
