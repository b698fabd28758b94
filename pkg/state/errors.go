package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an action that referenced a goal, list or instance
	// that does not exist (or no longer sits where the caller thought).
	ErrNotFound = errors.New("state: not found")
	// ErrValidation marks a payload rejected before any mutation.
	ErrValidation = errors.New("state: invalid payload")
	// ErrNotPermutation marks a reorder whose ids are not exactly the list's
	// current instance ids.
	ErrNotPermutation = errors.New("state: reorder ids are not a permutation of the list")
	// ErrAlreadyPresent marks a reference into a list that already holds the
	// goal.
	ErrAlreadyPresent = errors.New("state: goal already placed in list")
)

// CyclicMoveError is returned when a list move would make a list its own
// ancestor.
type CyclicMoveError struct {
	ListID       string
	DestParentID string
}

func (e *CyclicMoveError) Error() string {
	if e.ListID == e.DestParentID {
		return fmt.Sprintf("state: cannot move list %q into itself", e.ListID)
	}
	return fmt.Sprintf("state: cannot move list %q under its descendant %q", e.ListID, e.DestParentID)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
