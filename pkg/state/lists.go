package state

import (
	"strings"

	"tableflip.dev/goals/pkg/goal"
)

func (a AddList) apply(tx *txn) error {
	l := &goal.List{
		ID:          tx.newID(),
		Name:        strings.TrimSpace(a.Name),
		Description: a.Description,
		ParentID:    a.ParentID,
		CreatedAt:   tx.now,
	}
	if a.ParentID != "" {
		parent, err := tx.list(a.ParentID)
		if err != nil {
			return err
		}
		parent.ChildListIDs = append(parent.ChildListIDs, l.ID)
		parent.UpdatedAt = tx.now
	} else {
		tx.next.RootListIDs = append(tx.next.RootListIDs, l.ID)
	}
	tx.next.Lists[l.ID] = l
	tx.res.ListID = l.ID
	return nil
}

func (a RenameList) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	l.Name = strings.TrimSpace(a.Name)
	if a.Description != nil {
		l.Description = *a.Description
	}
	l.UpdatedAt = tx.now
	tx.res.ListID = l.ID
	return nil
}

func (a RemoveList) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	tx.detach(l)

	removed := make(map[string]bool)
	var walk func(id string)
	walk = func(id string) {
		sub, ok := tx.next.Lists[id]
		if !ok || removed[id] {
			return
		}
		removed[id] = true
		for _, child := range sub.ChildListIDs {
			walk(child)
		}
		for _, instID := range sub.InstanceIDs {
			if in, ok := tx.next.Instances[instID]; ok {
				delete(tx.next.Instances, in.ID)
				tx.released[in.GoalID] = true
			}
		}
		delete(tx.next.Lists, id)
	}
	walk(l.ID)

	for _, g := range tx.next.Goals {
		for id := range removed {
			if g.Disassociate(id) {
				tx.released[g.ID] = true
			}
		}
	}
	tx.res.ListID = l.ID
	return nil
}

// detach removes l from its parent's children or from the top level.
func (tx *txn) detach(l *goal.List) {
	if l.IsRoot() {
		tx.next.RootListIDs = without(tx.next.RootListIDs, l.ID)
		return
	}
	if parent, ok := tx.next.Lists[l.ParentID]; ok {
		parent.ChildListIDs = without(parent.ChildListIDs, l.ID)
		parent.UpdatedAt = tx.now
	}
}

// siblings returns the ordering that holds children of parentID.
func (tx *txn) siblings(parentID string) []string {
	if parentID == "" {
		return tx.next.RootListIDs
	}
	return tx.next.Lists[parentID].ChildListIDs
}

func (tx *txn) setSiblings(parentID string, ids []string) {
	if parentID == "" {
		tx.next.RootListIDs = ids
		return
	}
	parent := tx.next.Lists[parentID]
	parent.ChildListIDs = ids
	parent.UpdatedAt = tx.now
}
