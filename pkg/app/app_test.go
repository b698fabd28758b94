package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/link"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

type memoryPersistence struct {
	mu        sync.Mutex
	snap      *state.Snapshot
	clipboard string
	saves     int
	// onLoad, when set, runs once after the next Load reads the snapshot.
	onLoad func()
}

func (m *memoryPersistence) Load(_ context.Context) (*state.Snapshot, error) {
	m.mu.Lock()
	snap := m.snap.Clone()
	hook := m.onLoad
	m.onLoad = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return snap, nil
}

func (m *memoryPersistence) Save(snap *state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	m.saves++
	return nil
}

func (m *memoryPersistence) Clipboard() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipboard, nil
}

func (m *memoryPersistence) SetClipboard(listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipboard = listID
	return nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService(t *testing.T) (*Service, *memoryPersistence, *testClock) {
	t.Helper()
	mp := &memoryPersistence{}
	clock := &testClock{now: testEpoch}
	n := 0
	svc := &Service{
		Persistence: mp,
		SaveDelay:   time.Hour,
		StateOptions: []state.Option{
			state.WithClock(clock.Now),
			state.WithIDs(func() string {
				n++
				return fmt.Sprintf("n%04d", n)
			}),
		},
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mp, clock
}

func mustDispatch(t *testing.T, svc *Service, a state.Action) state.Result {
	t.Helper()
	res, err := svc.Dispatch(context.Background(), a)
	if err != nil {
		t.Fatalf("%s: %v", a.Kind(), err)
	}
	return res
}

func TestNoPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Dispatch(context.Background(), state.AddList{Name: "x"}); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
	if _, err := svc.Watch(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("watch: expected ErrNoPersistence, got %v", err)
	}
}

func TestDispatchReportsIgnored(t *testing.T) {
	svc, _, _ := newTestService(t)
	res, err := svc.Dispatch(context.Background(), state.ToggleGoal{GoalID: "missing"})
	if !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if res.Status != state.Ignored {
		t.Fatalf("status = %s", res.Status)
	}
}

func TestReloadKeepsConcurrentDispatch(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService(t)
	mustDispatch(t, svc, state.AddList{Name: "first"})

	done := make(chan error, 1)
	mp.mu.Lock()
	mp.onLoad = func() {
		go func() {
			_, err := svc.Dispatch(ctx, state.AddList{Name: "second"})
			done <- err
		}()
		time.Sleep(20 * time.Millisecond)
	}
	mp.mu.Unlock()

	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("second: %v", err)
	}
	mustDispatch(t, svc, state.AddList{Name: "third"})
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()
	var names []string
	for _, l := range mp.snap.Lists {
		names = append(names, l.Name)
	}
	if len(names) != 3 {
		t.Fatalf("persisted lists = %v, want first, second and third", names)
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService(t)
	mustDispatch(t, svc, state.AddList{Name: "Work"})
	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	mp.mu.Lock()
	external := mp.snap.Clone()
	external.Lists["ext"] = &goal.List{ID: "ext", Name: "Elsewhere"}
	external.RootListIDs = append(external.RootListIDs, "ext")
	mp.snap = external
	mp.mu.Unlock()

	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := svc.ResolveList(ctx, "Elsewhere"); err != nil {
		t.Fatalf("external list not loaded: %v", err)
	}
}

func TestResolveListAndItems(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	work := mustDispatch(t, svc, state.AddList{Name: "Work"}).ListID
	proj := mustDispatch(t, svc, state.AddList{Name: "Projects", ParentID: work}).ListID
	mustDispatch(t, svc, state.ImportGoals{ListID: proj, Items: []state.ImportItem{{Text: "first"}, {Text: "second"}}})

	l, err := svc.ResolveList(ctx, "work/projects")
	if err != nil || l.ID != proj {
		t.Fatalf("by path: got %v, %v", l, err)
	}
	if l, err := svc.ResolveList(ctx, work); err != nil || l.Name != "Work" {
		t.Fatalf("by id: got %v, %v", l, err)
	}
	if _, err := svc.ResolveList(ctx, "Work/Nope"); !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}

	_, it, err := svc.ResolveItem(ctx, "Work/Projects", "2")
	if err != nil || it.Goal.Text != "second" {
		t.Fatalf("by position: got %#v, %v", it.Goal, err)
	}
	_, byID, err := svc.ResolveItem(ctx, "Work/Projects", it.Goal.ID)
	if err != nil || byID.Instance.ID != it.Instance.ID {
		t.Fatalf("by goal id: got %#v, %v", byID.Instance, err)
	}
	if _, _, err := svc.ResolveItem(ctx, "Work/Projects", "3"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
	if _, _, err := svc.ResolveItem(ctx, "Work/Projects", "n000"); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if _, err := svc.ResolveGoal(ctx, "n0"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("short prefix should not match, got %v", err)
	}
}

func TestImportExportThroughService(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService(t)
	mustDispatch(t, svc, state.AddList{Name: "Inbox"})

	res, err := svc.Import(ctx, "Inbox", strings.NewReader("- [x] Buy milk\n* Walk dog\n\n1. Pay bills\n"), FormatMarkdown)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.GoalIDs) != 3 {
		t.Fatalf("imported %d goals", len(res.GoalIDs))
	}

	var buf bytes.Buffer
	if err := svc.Export(ctx, "Inbox", &buf, FormatMarkdown, state.Filter{HideCompleted: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.String() != "- [ ] Walk dog\n- [ ] Pay bills\n" {
		t.Fatalf("export = %q", buf.String())
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if mp.saves == 0 || len(mp.snap.Goals) != 3 {
		t.Fatalf("close did not persist: saves=%d goals=%d", mp.saves, len(mp.snap.Goals))
	}
}

func TestImportEmptyIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)
	list := mustDispatch(t, svc, state.AddList{Name: "Inbox"}).ListID
	res, err := svc.Import(context.Background(), "Inbox", strings.NewReader("\n  \n"), FormatMarkdown)
	if err != nil || res.ListID != list || len(res.GoalIDs) != 0 {
		t.Fatalf("got %#v, %v", res, err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected error for csv")
	}
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := mustDispatch(t, svc, state.AddList{Name: "Home"}).ListID

	raw, err := svc.LinkFor(ctx, "Home")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if raw != "goals://open-list/"+id {
		t.Fatalf("link = %q", raw)
	}
	l, err := svc.OpenLink(ctx, raw)
	if err != nil || l.ID != id {
		t.Fatalf("open: got %v, %v", l, err)
	}

	_, err = svc.OpenLink(ctx, "goals://open-list/gone")
	var le *link.LinkError
	if !errors.As(err, &le) || le.Code != link.ErrCodeUnknownList {
		t.Fatalf("expected unknown_list, got %v", err)
	}
}

func TestCutPaste(t *testing.T) {
	ctx := context.Background()
	svc, mp, _ := newTestService(t)
	a := mustDispatch(t, svc, state.AddList{Name: "A"}).ListID
	b := mustDispatch(t, svc, state.AddList{Name: "B"}).ListID

	if _, err := svc.Paste(ctx, "B", true); !errors.Is(err, ErrNothingCut) {
		t.Fatalf("expected ErrNothingCut, got %v", err)
	}
	if _, err := svc.Cut(ctx, "A"); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if _, err := svc.Paste(ctx, "B", true); err != nil {
		t.Fatalf("paste: %v", err)
	}
	v, _ := svc.View(ctx)
	if l, _ := v.List(a); l.ParentID != b {
		t.Fatalf("parent = %q, want %q", l.ParentID, b)
	}
	if mp.clipboard != "" {
		t.Fatalf("clipboard not cleared: %q", mp.clipboard)
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)
	work := mustDispatch(t, svc, state.AddList{Name: "Work"}).ListID
	home := mustDispatch(t, svc, state.AddList{Name: "Home"}).ListID
	early := mustDispatch(t, svc, state.AddGoal{ListID: work, Text: "early"}).GoalID
	shared := mustDispatch(t, svc, state.AddGoal{ListID: work, Text: "shared"}).GoalID
	mustDispatch(t, svc, state.ReferenceGoal{DestListID: home, GoalID: shared})
	mustDispatch(t, svc, state.AddGoal{ListID: home, Text: "open"})

	mustDispatch(t, svc, state.ToggleGoal{GoalID: early})
	clock.Set(testEpoch.Add(48 * time.Hour))
	mustDispatch(t, svc, state.ToggleGoal{GoalID: shared})

	got, err := svc.Report(ctx, testEpoch.Add(72*time.Hour), testEpoch.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if got.Total != 1 || len(got.Sections) != 2 {
		t.Fatalf("total=%d sections=%d", got.Total, len(got.Sections))
	}
	if got.Sections[0].Path != "Work" || got.Sections[1].Path != "Home" {
		t.Fatalf("sections = %q, %q", got.Sections[0].Path, got.Sections[1].Path)
	}
	if got.Sections[0].Goals[0].Goal.ID != shared {
		t.Fatalf("unexpected goal %q", got.Sections[0].Goals[0].Goal.Text)
	}
	if !got.Since.Before(got.Until) {
		t.Fatalf("bounds not swapped")
	}
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)
	work := mustDispatch(t, svc, state.AddList{Name: "Work"}).ListID
	stale := mustDispatch(t, svc, state.AddGoal{ListID: work, Text: "stale"}).GoalID
	done := mustDispatch(t, svc, state.AddGoal{ListID: work, Text: "done"}).GoalID
	mustDispatch(t, svc, state.ToggleGoal{GoalID: done})
	clock.Set(testEpoch.Add(10 * 24 * time.Hour))
	mustDispatch(t, svc, state.AddGoal{ListID: work, Text: "fresh"})

	got, err := svc.Review(ctx, testEpoch.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(got) != 1 || got[0].Goal.ID != stale {
		t.Fatalf("review = %#v", got)
	}
	if len(got[0].Paths) != 1 || got[0].Paths[0] != "Work" {
		t.Fatalf("paths = %v", got[0].Paths)
	}
}
