package state

import "tableflip.dev/goals/pkg/goal"

func (a MoveList) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	if l.ParentID != a.SourceParentID {
		return notFound("list", a.ListID+" under "+parentName(a.SourceParentID))
	}
	if err := tx.checkDest(l.ID, a.DestParentID); err != nil {
		return err
	}
	tx.reparent(l, a.DestParentID, func([]string) int { return a.DestIndex })
	tx.res.ListID = l.ID
	return nil
}

func (a PasteList) apply(tx *txn) error {
	l, err := tx.list(a.ListID)
	if err != nil {
		return err
	}
	tx.res.ListID = l.ID

	if a.AsChild {
		if err := tx.checkDest(l.ID, a.TargetID); err != nil {
			return err
		}
		tx.reparent(l, a.TargetID, func([]string) int { return -1 })
		return nil
	}

	if a.TargetID == l.ID {
		return nil
	}
	target, err := tx.list(a.TargetID)
	if err != nil {
		return err
	}
	if err := tx.checkDest(l.ID, target.ParentID); err != nil {
		return err
	}
	tx.reparent(l, target.ParentID, func(ids []string) int {
		return indexOf(ids, target.ID) + 1
	})
	return nil
}

// checkDest verifies destParentID exists and is neither listID nor one of
// its descendants. An empty destParentID is the top level.
func (tx *txn) checkDest(listID, destParentID string) error {
	if destParentID == "" {
		return nil
	}
	if _, err := tx.list(destParentID); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for id := destParentID; id != ""; {
		if id == listID {
			return &CyclicMoveError{ListID: listID, DestParentID: destParentID}
		}
		if seen[id] {
			break
		}
		seen[id] = true
		p, ok := tx.next.Lists[id]
		if !ok {
			break
		}
		id = p.ParentID
	}
	return nil
}

// reparent moves l into destParentID's ordering. index is computed against
// the destination ordering after l has been taken out of its old place.
func (tx *txn) reparent(l *goal.List, destParentID string, index func([]string) int) {
	tx.detach(l)
	dest := tx.siblings(destParentID)
	tx.setSiblings(destParentID, insertAt(dest, l.ID, index(dest)))
	l.ParentID = destParentID
	l.UpdatedAt = tx.now
}

func parentName(id string) string {
	if id == "" {
		return "top level"
	}
	return id
}
