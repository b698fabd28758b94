// Package state owns the goal graph and applies typed actions to it. Every
// action runs against a private copy of the current snapshot and is
// committed whole or not at all.
package state

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/goals/pkg/goal"
)

// OrphanPolicy decides what happens to a goal when its last placement goes
// away.
type OrphanPolicy string

const (
	// OrphanKeep leaves unplaced goals in the store.
	OrphanKeep OrphanPolicy = "keep"
	// OrphanPurge deletes goals released by an action when nothing places or
	// associates them anymore.
	OrphanPurge OrphanPolicy = "purge"
)

// ParseOrphanPolicy maps a config string onto a policy. Unknown values keep.
func ParseOrphanPolicy(s string) OrphanPolicy {
	if OrphanPolicy(s) == OrphanPurge {
		return OrphanPurge
	}
	return OrphanKeep
}

// Hook observes committed snapshots. The snapshot is shared and must not be
// modified.
type Hook func(*Snapshot)

// Status is the outcome of dispatching an action.
type Status string

const (
	Applied  Status = "applied"
	Ignored  Status = "ignored"
	Rejected Status = "rejected"
)

// Result reports what an action did. The id fields carry whatever the action
// created, so callers can address new entities without diffing state.
type Result struct {
	Kind        Kind
	Status      Status
	Reason      error
	ListID      string
	GoalID      string
	InstanceID  string
	GoalIDs     []string
	InstanceIDs []string
}

// OK reports whether the action was applied.
func (r Result) OK() bool { return r.Status == Applied }

// Err returns nil when applied, otherwise the reason, or a generic error when
// none was recorded.
func (r Result) Err() error {
	if r.Status == Applied {
		return nil
	}
	if r.Reason != nil {
		return r.Reason
	}
	return errors.New("state: action " + string(r.Kind) + " " + string(r.Status))
}

// Store serialises actions over one snapshot.
type Store struct {
	mu      sync.Mutex
	deliver sync.Mutex // held while hooks run, taken before mu is released
	cur     *Snapshot
	now     func() time.Time
	newID   func() string
	logger  *log.Logger
	orphans OrphanPolicy
	hooks   []Hook
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets where ignored and rejected actions are reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(s *Store) { s.orphans = p }
}

// New returns a store over an empty snapshot.
func New(opts ...Option) *Store {
	return FromSnapshot(nil, opts...)
}

// FromSnapshot returns a store that starts from a copy of snap.
func FromSnapshot(snap *Snapshot, opts ...Option) *Store {
	cur := snap.Clone()
	cur.normalize()
	s := &Store{
		cur:     cur,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  log.New(io.Discard, "", 0),
		orphans: OrphanKeep,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// OnCommit registers h to run after every applied action. Hooks see
// snapshots in commit order and must not call Dispatch.
func (s *Store) OnCommit(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Snapshot returns a deep copy of the committed state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Clone()
}

// View returns read-only selectors over the committed state. Committed
// snapshots are never modified in place, so the view stays consistent even
// while later actions are dispatched.
func (s *Store) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewView(s.cur)
}

// Replace swaps in a copy of snap, as when state is reloaded from disk.
// Hooks are not run.
func (s *Store) Replace(snap *Snapshot) {
	cp := snap.Clone()
	cp.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = cp
}

// Dispatch applies a to the current state.
func (s *Store) Dispatch(a Action) Result {
	res := Result{Kind: a.Kind()}
	if err := a.validate(); err != nil {
		res.Status = Rejected
		res.Reason = err
		s.logger.Printf("%s rejected: %v", res.Kind, err)
		return res
	}

	s.mu.Lock()
	tx := &txn{
		next:     s.cur.Clone(),
		now:      goal.At(s.now()),
		newID:    s.newID,
		res:      &res,
		released: make(map[string]bool),
	}
	if err := a.apply(tx); err != nil {
		s.mu.Unlock()
		res.Reason = err
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyPresent):
			res.Status = Ignored
			s.logger.Printf("%s ignored: %v", res.Kind, err)
		default:
			res.Status = Rejected
			s.logger.Printf("%s rejected: %v", res.Kind, err)
		}
		return res
	}
	if s.orphans == OrphanPurge {
		tx.collectOrphans()
	}
	s.cur = tx.next
	committed := s.cur
	hooks := append([]Hook(nil), s.hooks...)
	s.deliver.Lock()
	s.mu.Unlock()
	defer s.deliver.Unlock()

	res.Status = Applied
	for _, h := range hooks {
		h(committed)
	}
	return res
}

// txn is the working copy an action mutates.
type txn struct {
	next     *Snapshot
	now      goal.Timestamp
	newID    func() string
	res      *Result
	released map[string]bool
}

func (tx *txn) list(id string) (*goal.List, error) {
	l, ok := tx.next.Lists[id]
	if !ok {
		return nil, notFound("list", id)
	}
	return l, nil
}

func (tx *txn) goal(id string) (*goal.Goal, error) {
	g, ok := tx.next.Goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	return g, nil
}

func (tx *txn) instance(id string) (*goal.Instance, error) {
	in, ok := tx.next.Instances[id]
	if !ok {
		return nil, notFound("instance", id)
	}
	return in, nil
}

// newGoal creates a goal stamped with the action time.
func (tx *txn) newGoal(text string, completed bool) *goal.Goal {
	g := &goal.Goal{
		ID:        tx.newID(),
		Text:      text,
		Completed: completed,
		CreatedAt: tx.now,
	}
	tx.next.Goals[g.ID] = g
	return g
}

// place creates an instance of goalID in l at index. A negative index or
// one past the end appends.
func (tx *txn) place(l *goal.List, goalID string, index int) *goal.Instance {
	in := &goal.Instance{ID: tx.newID(), GoalID: goalID, ListID: l.ID}
	tx.next.Instances[in.ID] = in
	l.InstanceIDs = insertAt(l.InstanceIDs, in.ID, index)
	l.UpdatedAt = tx.now
	return in
}

// unplace deletes an instance and remembers its goal as released.
func (tx *txn) unplace(in *goal.Instance) {
	if l, ok := tx.next.Lists[in.ListID]; ok {
		l.InstanceIDs = without(l.InstanceIDs, in.ID)
		l.UpdatedAt = tx.now
	}
	delete(tx.next.Instances, in.ID)
	tx.released[in.GoalID] = true
}

// collectOrphans deletes released goals that nothing references anymore.
func (tx *txn) collectOrphans() {
	if len(tx.released) == 0 {
		return
	}
	placed := make(map[string]bool, len(tx.next.Instances))
	for _, in := range tx.next.Instances {
		placed[in.GoalID] = true
	}
	for id := range tx.released {
		g, ok := tx.next.Goals[id]
		if !ok || placed[id] || len(g.AssociatedListIDs) > 0 {
			continue
		}
		delete(tx.next.Goals, id)
	}
}

func insertAt(ids []string, id string, index int) []string {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	return append(out, ids[index:]...)
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
