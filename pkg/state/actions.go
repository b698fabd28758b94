package state

import (
	"strconv"
	"strings"
)

// Kind tags each action variant.
type Kind string

const (
	KindAddList          Kind = "addList"
	KindRenameList       Kind = "renameList"
	KindRemoveList       Kind = "removeList"
	KindMoveList         Kind = "moveList"
	KindPasteList        Kind = "pasteList"
	KindAddGoal          Kind = "addGoal"
	KindToggleGoal       Kind = "toggleGoal"
	KindEditGoalText     Kind = "editGoalText"
	KindRemoveInstance   Kind = "removeInstanceFromList"
	KindMoveInstance     Kind = "moveInstance"
	KindReferenceGoal    Kind = "referenceGoal"
	KindCopyGoal         Kind = "copyGoal"
	KindReorderInstances Kind = "reorderInstances"
	KindAssociateGoal    Kind = "associateGoal"
	KindDisassociateGoal Kind = "disassociateGoal"
	KindImportGoals      Kind = "importGoals"
	KindPurgeGoal        Kind = "purgeGoal"
	KindSortByRating     Kind = "sortByRating"
)

// Action is one typed mutation. The set of variants is closed: only the
// types in this package implement it.
type Action interface {
	Kind() Kind
	validate() error
	apply(tx *txn) error
}

// AddList creates a list at the end of its parent's children, or at the end
// of the top level when ParentID is empty.
type AddList struct {
	Name        string
	Description string
	ParentID    string
}

// RenameList changes a list's name, and its description when Description is
// non-nil.
type RenameList struct {
	ListID      string
	Name        string
	Description *string
}

// RemoveList deletes a list, its descendants and their instances.
type RemoveList struct {
	ListID string
}

// MoveList re-parents a list. DestIndex is clamped; a negative index appends.
type MoveList struct {
	ListID         string
	SourceParentID string
	DestParentID   string
	DestIndex      int
}

// PasteList completes a cut/paste of ListID relative to TargetID: as the last
// child of TargetID, or as the sibling right after it.
type PasteList struct {
	ListID   string
	TargetID string
	AsChild  bool
}

// AddGoal creates a goal and places it at the top of a list.
type AddGoal struct {
	ListID string
	Text   string
}

type ToggleGoal struct {
	GoalID string
}

type EditGoalText struct {
	GoalID string
	Text   string
}

// RemoveInstance drops one placement from a list.
type RemoveInstance struct {
	ListID     string
	InstanceID string
}

// MoveInstance relocates a placement to DestListID at DestIndex.
type MoveInstance struct {
	InstanceID   string
	SourceListID string
	DestListID   string
	DestIndex    int
}

// ReferenceGoal places an existing goal in another list, sharing it live.
// A nil DestIndex places it at the top.
type ReferenceGoal struct {
	DestListID string
	GoalID     string
	DestIndex  *int
}

// CopyGoal duplicates a goal into an independent goal placed in DestListID.
type CopyGoal struct {
	GoalID     string
	DestListID string
	DestIndex  *int
}

// ReorderInstances replaces a list's ordering. InstanceIDs must be a
// permutation of the current ordering.
type ReorderInstances struct {
	ListID      string
	InstanceIDs []string
}

type AssociateGoal struct {
	GoalID string
	ListID string
}

type DisassociateGoal struct {
	GoalID string
	ListID string
}

// ImportItem is one goal to create in an ImportGoals batch.
type ImportItem struct {
	Text      string
	Completed bool
}

// ImportGoals appends a batch of new goals to a list in input order.
type ImportGoals struct {
	ListID string
	Items  []ImportItem
}

// PurgeGoal deletes a goal and every placement of it.
type PurgeGoal struct {
	GoalID string
}

// SortByRating reorders a list by the rating parsed from each goal's text.
type SortByRating struct {
	ListID string
}

func (AddList) Kind() Kind          { return KindAddList }
func (RenameList) Kind() Kind       { return KindRenameList }
func (RemoveList) Kind() Kind       { return KindRemoveList }
func (MoveList) Kind() Kind         { return KindMoveList }
func (PasteList) Kind() Kind        { return KindPasteList }
func (AddGoal) Kind() Kind          { return KindAddGoal }
func (ToggleGoal) Kind() Kind       { return KindToggleGoal }
func (EditGoalText) Kind() Kind     { return KindEditGoalText }
func (RemoveInstance) Kind() Kind   { return KindRemoveInstance }
func (MoveInstance) Kind() Kind     { return KindMoveInstance }
func (ReferenceGoal) Kind() Kind    { return KindReferenceGoal }
func (CopyGoal) Kind() Kind         { return KindCopyGoal }
func (ReorderInstances) Kind() Kind { return KindReorderInstances }
func (AssociateGoal) Kind() Kind    { return KindAssociateGoal }
func (DisassociateGoal) Kind() Kind { return KindDisassociateGoal }
func (ImportGoals) Kind() Kind      { return KindImportGoals }
func (PurgeGoal) Kind() Kind        { return KindPurgeGoal }
func (SortByRating) Kind() Kind     { return KindSortByRating }

func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalid(pairs[i] + " is required")
		}
	}
	return nil
}

func (a AddList) validate() error { return required("list name", a.Name) }

func (a RenameList) validate() error {
	return required("list id", a.ListID, "list name", a.Name)
}

func (a RemoveList) validate() error { return required("list id", a.ListID) }

func (a MoveList) validate() error { return required("list id", a.ListID) }

func (a PasteList) validate() error {
	if err := required("list id", a.ListID); err != nil {
		return err
	}
	if !a.AsChild && a.TargetID == "" {
		return invalid("sibling paste needs a target list")
	}
	return nil
}

func (a AddGoal) validate() error {
	return required("list id", a.ListID, "goal text", a.Text)
}

func (a ToggleGoal) validate() error { return required("goal id", a.GoalID) }

func (a EditGoalText) validate() error {
	return required("goal id", a.GoalID, "goal text", a.Text)
}

func (a RemoveInstance) validate() error {
	return required("list id", a.ListID, "instance id", a.InstanceID)
}

func (a MoveInstance) validate() error {
	return required("instance id", a.InstanceID, "source list id", a.SourceListID, "destination list id", a.DestListID)
}

func (a ReferenceGoal) validate() error {
	return required("destination list id", a.DestListID, "goal id", a.GoalID)
}

func (a CopyGoal) validate() error {
	return required("goal id", a.GoalID, "destination list id", a.DestListID)
}

func (a ReorderInstances) validate() error { return required("list id", a.ListID) }

func (a AssociateGoal) validate() error {
	return required("goal id", a.GoalID, "list id", a.ListID)
}

func (a DisassociateGoal) validate() error {
	return required("goal id", a.GoalID, "list id", a.ListID)
}

func (a ImportGoals) validate() error {
	if err := required("list id", a.ListID); err != nil {
		return err
	}
	for i, item := range a.Items {
		if strings.TrimSpace(item.Text) == "" {
			return invalid("import item " + strconv.Itoa(i+1) + " has no text")
		}
	}
	return nil
}

func (a PurgeGoal) validate() error { return required("goal id", a.GoalID) }

func (a SortByRating) validate() error { return required("list id", a.ListID) }
