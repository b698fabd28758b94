package state

import (
	"fmt"
	"slices"

	"tableflip.dev/goals/pkg/goal"
)

func (a AddGoal) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	g := tx.newGoal(a.Text, false)
	in := tx.place(l, g.ID, 0)
	tx.res.ListID, tx.res.GoalID, tx.res.InstanceID = l.ID, g.ID, in.ID
	return nil
}

func (a ToggleGoal) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	g.Completed = !g.Completed
	g.UpdatedAt = tx.now
	tx.res.GoalID = g.ID
	return nil
}

func (a EditGoalText) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	g.Text = a.Text
	g.UpdatedAt = tx.now
	tx.res.GoalID = g.ID
	return nil
}

func (a RemoveInstance) apply(tx *txn) error {
	in, err := tx.placedIn(a.InstanceID, a.ListID)
	if err != nil {
		return err
	}
	tx.unplace(in)
	tx.res.ListID, tx.res.GoalID, tx.res.InstanceID = in.ListID, in.GoalID, in.ID
	return nil
}

func (a MoveInstance) apply(tx *txn) error {
	in, err := tx.placedIn(a.InstanceID, a.SourceListID)
	if err != nil {
		return err
	}
	dest, err := tx.list(a.DestListID)
	if err != nil {
		return err
	}
	tx.res.ListID, tx.res.GoalID = dest.ID, in.GoalID

	if dest.ID == in.ListID {
		dest.InstanceIDs = insertAt(without(dest.InstanceIDs, in.ID), in.ID, a.DestIndex)
		dest.UpdatedAt = tx.now
		tx.res.InstanceID = in.ID
		return nil
	}

	if existing := tx.placementIn(dest, in.GoalID); existing != nil {
		tx.unplace(in)
		dest.InstanceIDs = insertAt(without(dest.InstanceIDs, existing.ID), existing.ID, a.DestIndex)
		dest.UpdatedAt = tx.now
		tx.res.InstanceID = existing.ID
		return nil
	}

	moved := tx.place(dest, in.GoalID, a.DestIndex)
	tx.unplace(in)
	tx.res.InstanceID = moved.ID
	return nil
}

func (a ReferenceGoal) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	dest, err := tx.list(a.DestListID)
	if err != nil {
		return err
	}
	if tx.placementIn(dest, g.ID) != nil {
		return fmt.Errorf("%w: goal %q in list %q", ErrAlreadyPresent, g.ID, dest.ID)
	}
	in := tx.place(dest, g.ID, topOr(a.DestIndex))
	tx.res.ListID, tx.res.GoalID, tx.res.InstanceID = dest.ID, g.ID, in.ID
	return nil
}

func (a CopyGoal) apply(tx *txn) error {
	src, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	dest, err := tx.list(a.DestListID)
	if err != nil {
		return err
	}
	g := tx.newGoal(src.Text, src.Completed)
	in := tx.place(dest, g.ID, topOr(a.DestIndex))
	tx.res.ListID, tx.res.GoalID, tx.res.InstanceID = dest.ID, g.ID, in.ID
	return nil
}

func (a ReorderInstances) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	if !isPermutation(l.InstanceIDs, a.InstanceIDs) {
		return fmt.Errorf("%w: list %q has %d instances, got %d ids", ErrNotPermutation, l.ID, len(l.InstanceIDs), len(a.InstanceIDs))
	}
	l.InstanceIDs = slices.Clone(a.InstanceIDs)
	l.UpdatedAt = tx.now
	tx.res.ListID = l.ID
	tx.res.InstanceIDs = slices.Clone(a.InstanceIDs)
	return nil
}

func (a AssociateGoal) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	if _, err := tx.list(a.ListID); err != nil {
		return err
	}
	if g.Associate(a.ListID) {
		g.UpdatedAt = tx.now
	}
	tx.res.GoalID, tx.res.ListID = g.ID, a.ListID
	return nil
}

func (a DisassociateGoal) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	if g.Disassociate(a.ListID) {
		g.UpdatedAt = tx.now
		tx.released[g.ID] = true
	}
	tx.res.GoalID, tx.res.ListID = g.ID, a.ListID
	return nil
}

func (a ImportGoals) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	for _, item := range a.Items {
		g := tx.newGoal(item.Text, item.Completed)
		in := tx.place(l, g.ID, -1)
		tx.res.GoalIDs = append(tx.res.GoalIDs, g.ID)
		tx.res.InstanceIDs = append(tx.res.InstanceIDs, in.ID)
	}
	tx.res.ListID = l.ID
	return nil
}

func (a PurgeGoal) apply(tx *txn) error {
	g, err := tx.goal(a.GoalID)
	if err != nil {
		return err
	}
	for _, in := range tx.next.Instances {
		if in.GoalID == g.ID {
			tx.unplace(in)
		}
	}
	delete(tx.next.Goals, g.ID)
	tx.res.GoalID = g.ID
	return nil
}

// placedIn returns the instance only if it is placed in listID.
func (tx *txn) placedIn(instanceID, listID string) (*goal.Instance, error) {
	l, err := tx.list(listID)
	if err != nil {
		return nil, err
	}
	in, err := tx.instance(instanceID)
	if err != nil {
		return nil, err
	}
	if in.ListID != l.ID || indexOf(l.InstanceIDs, in.ID) < 0 {
		return nil, notFound("instance", instanceID+" in list "+listID)
	}
	return in, nil
}

// placementIn returns the first instance of goalID in l, or nil.
func (tx *txn) placementIn(l *goal.List, goalID string) *goal.Instance {
	for _, id := range l.InstanceIDs {
		if in, ok := tx.next.Instances[id]; ok && in.GoalID == goalID {
			return in
		}
	}
	return nil
}

func topOr(index *int) int {
	if index == nil {
		return 0
	}
	return *index
}

func isPermutation(current, proposed []string) bool {
	if len(current) != len(proposed) {
		return false
	}
	want := make(map[string]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	seen := make(map[string]bool, len(proposed))
	for _, id := range proposed {
		if !want[id] || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
