package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/link"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

// Service provides high-level operations over the goal store. It wraps
// persistence and name resolution so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence
	// Scheme names cross-navigation links; empty means store.DefaultScheme.
	Scheme string
	Orphans state.OrphanPolicy
	// Logger receives ignored and rejected actions. Nil discards them.
	Logger *log.Logger
	// SaveDelay debounces background writes.
	SaveDelay time.Duration
	// StateOptions are passed to the state store after the fields above.
	StateOptions []state.Option

	mu sync.Mutex
	// gate is read-held by Dispatch and write-held by Reload.
	gate  sync.RWMutex
	st    *state.Store
	saver *store.Autosaver
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrListNotFound  = errors.New("app: list not found")
	ErrGoalNotFound  = errors.New("app: goal not found")
	ErrAmbiguous     = errors.New("app: reference is ambiguous")
	ErrNothingCut    = errors.New("app: no list has been cut")
)

// Open loads state from persistence. Other methods open lazily, so calling
// Open is only needed to surface load errors early.
func (s *Service) Open(ctx context.Context) error {
	_, err := s.store(ctx)
	return err
}

func (s *Service) store(ctx context.Context) (*state.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != nil {
		return s.st, nil
	}
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	snap, err := s.Persistence.Load(ctx)
	if err != nil {
		return nil, err
	}
	opts := []state.Option{state.WithOrphanPolicy(s.Orphans)}
	if s.Logger != nil {
		opts = append(opts, state.WithLogger(s.Logger))
	}
	opts = append(opts, s.StateOptions...)
	st := state.FromSnapshot(snap, opts...)
	s.saver = store.NewAutosaver(s.Persistence, s.SaveDelay, nil)
	st.OnCommit(s.saver.Hook())
	s.st = st
	return st, nil
}

// Close flushes pending writes.
func (s *Service) Close() error {
	s.mu.Lock()
	saver := s.saver
	s.mu.Unlock()
	if saver == nil {
		return nil
	}
	return saver.Close()
}

// Reload replaces in-memory state with what is on disk, after flushing
// anything pending. Dispatches wait until it finishes. When the disk holds
// what was just flushed, as after our own write, the state is kept.
func (s *Service) Reload(ctx context.Context) error {
	st, err := s.store(ctx)
	if err != nil {
		return err
	}
	s.gate.Lock()
	defer s.gate.Unlock()
	if err := s.saver.Flush(); err != nil {
		return err
	}
	snap, err := s.Persistence.Load(ctx)
	if err != nil {
		return err
	}
	if snap.SameAs(st.Snapshot()) {
		return nil
	}
	st.Replace(snap)
	return nil
}

// View returns read-only selectors over the current state.
func (s *Service) View(ctx context.Context) (*state.View, error) {
	st, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.View(), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Dispatch applies a and returns its result. Anything but an applied action
// is also returned as an error.
func (s *Service) Dispatch(ctx context.Context, a state.Action) (state.Result, error) {
	if err := ctx.Err(); err != nil {
		return state.Result{}, err
	}
	st, err := s.store(ctx)
	if err != nil {
		return state.Result{}, err
	}
	s.gate.RLock()
	defer s.gate.RUnlock()
	res := st.Dispatch(a)
	return res, res.Err()
}

// ResolveList finds a list by id, or by a "/" separated path of names.
func (s *Service) ResolveList(ctx context.Context, ref string) (*goal.List, error) {
	v, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	return resolveList(v, ref)
}

func resolveList(v *state.View, ref string) (*goal.List, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrListNotFound)
	}
	if l, ok := v.List(ref); ok {
		return l, nil
	}
	if l, ok := v.FindByPath(strings.Split(strings.Trim(ref, "/"), "/")...); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrListNotFound, ref)
}

// ResolveGoal finds a goal by id or by a unique id prefix.
func (s *Service) ResolveGoal(ctx context.Context, ref string) (*goal.Goal, error) {
	v, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if g, ok := v.Goal(ref); ok {
		return g, nil
	}
	var found *goal.Goal
	if len(ref) >= minPrefix {
		for _, g := range v.Snapshot().Goals {
			if !strings.HasPrefix(g.ID, ref) {
				continue
			}
			if found != nil {
				return nil, fmt.Errorf("%w: goal %q", ErrAmbiguous, ref)
			}
			found = g
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrGoalNotFound, ref)
	}
	return found, nil
}

// minPrefix is the shortest id prefix accepted for goals.
const minPrefix = 4

// ResolveItem finds a placement in a list by 1-based position, instance id,
// or the id (or unique prefix) of the goal it places.
func (s *Service) ResolveItem(ctx context.Context, listRef, ref string) (*goal.List, state.Item, error) {
	v, err := s.View(ctx)
	if err != nil {
		return nil, state.Item{}, err
	}
	l, err := resolveList(v, listRef)
	if err != nil {
		return nil, state.Item{}, err
	}
	items := v.Items(l.ID, state.Filter{})
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return nil, state.Item{}, fmt.Errorf("%w: no item %d in %q", ErrGoalNotFound, n, l.Name)
		}
		return l, items[n-1], nil
	}
	var match *state.Item
	for i := range items {
		it := &items[i]
		if it.Instance.ID == ref || it.Goal.ID == ref {
			return l, *it, nil
		}
		if len(ref) >= minPrefix && strings.HasPrefix(it.Goal.ID, ref) {
			if match != nil {
				return nil, state.Item{}, fmt.Errorf("%w: goal %q", ErrAmbiguous, ref)
			}
			match = it
		}
	}
	if match == nil {
		return nil, state.Item{}, fmt.Errorf("%w: %q in %q", ErrGoalNotFound, ref, l.Name)
	}
	return l, *match, nil
}

// PathOf renders the "/" separated path of a list.
func (s *Service) PathOf(ctx context.Context, listID string) (string, error) {
	v, err := s.View(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(v.Path(listID), "/"), nil
}

// Import reads goals in the given format and appends them to a list.
func (s *Service) Import(ctx context.Context, listRef string, r io.Reader, format Format) (state.Result, error) {
	l, err := s.ResolveList(ctx, listRef)
	if err != nil {
		return state.Result{}, err
	}
	items, err := format.read(r)
	if err != nil {
		return state.Result{}, err
	}
	if len(items) == 0 {
		return state.Result{Kind: state.KindImportGoals, Status: state.Applied, ListID: l.ID}, nil
	}
	return s.Dispatch(ctx, state.ImportGoals{ListID: l.ID, Items: items})
}

// Export writes a list's goals in order.
func (s *Service) Export(ctx context.Context, listRef string, w io.Writer, format Format, f state.Filter) error {
	v, err := s.View(ctx)
	if err != nil {
		return err
	}
	l, err := resolveList(v, listRef)
	if err != nil {
		return err
	}
	return format.write(w, l.Name, strings.Join(v.Path(l.ID), "/"), v.Items(l.ID, f))
}

func (s *Service) scheme() string {
	if s.Scheme == "" {
		return store.DefaultScheme
	}
	return s.Scheme
}

// LinkFor returns the cross-navigation link of a list.
func (s *Service) LinkFor(ctx context.Context, listRef string) (string, error) {
	l, err := s.ResolveList(ctx, listRef)
	if err != nil {
		return "", err
	}
	return link.Format(s.scheme(), l.ID), nil
}

// OpenLink resolves a cross-navigation link. Bad links and unknown lists are
// reported as *link.LinkError.
func (s *Service) OpenLink(ctx context.Context, raw string) (*goal.List, error) {
	target, err := link.Parse(raw, s.scheme())
	if err != nil {
		return nil, err
	}
	v, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	l, ok := v.List(target.ListID)
	if !ok {
		return nil, &link.LinkError{Code: link.ErrCodeUnknownList, Message: fmt.Sprintf("no list with id %q", target.ListID)}
	}
	return l, nil
}

// Cut marks a list for a later Paste.
func (s *Service) Cut(ctx context.Context, listRef string) (*goal.List, error) {
	l, err := s.ResolveList(ctx, listRef)
	if err != nil {
		return nil, err
	}
	if err := s.Persistence.SetClipboard(l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// Paste moves the cut list next to targetRef, or under it when asChild is
// set. An empty targetRef with asChild pastes at the end of the top level.
func (s *Service) Paste(ctx context.Context, targetRef string, asChild bool) (state.Result, error) {
	if s.Persistence == nil {
		return state.Result{}, ErrNoPersistence
	}
	cut, err := s.Persistence.Clipboard()
	if err != nil {
		return state.Result{}, err
	}
	if cut == "" {
		return state.Result{}, ErrNothingCut
	}
	var targetID string
	if targetRef != "" {
		target, err := s.ResolveList(ctx, targetRef)
		if err != nil {
			return state.Result{}, err
		}
		targetID = target.ID
	}
	res, err := s.Dispatch(ctx, state.PasteList{ListID: cut, TargetID: targetID, AsChild: asChild})
	if err != nil {
		return res, err
	}
	return res, s.Persistence.SetClipboard("")
}
