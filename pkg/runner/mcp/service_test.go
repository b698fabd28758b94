package mcp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

type memoryPersistence struct {
	mu   sync.Mutex
	snap *state.Snapshot
	cut  string
}

func (m *memoryPersistence) Load(context.Context) (*state.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

func (m *memoryPersistence) Save(snap *state.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}

func (m *memoryPersistence) Clipboard() (string, error) {
	return m.cut, nil
}

func (m *memoryPersistence) SetClipboard(id string) error {
	m.cut = id
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	a := &app.Service{Persistence: &memoryPersistence{}, Scheme: "goals"}
	t.Cleanup(func() { _ = a.Close() })
	return NewService(a)
}

func texts(goals []GoalDTO) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.Text)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestServiceAddAndShow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	work, err := svc.AddList(ctx, "Work", "day job", "")
	if err != nil {
		t.Fatalf("add list: %v", err)
	}
	if work.Path != "Work" || work.Link != "goals://open-list/"+work.ID {
		t.Fatalf("unexpected list %#v", work)
	}
	projects, err := svc.AddList(ctx, "Projects", "", "Work")
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	if projects.Path != "Work/Projects" || projects.Depth != 1 || projects.ParentID != work.ID {
		t.Fatalf("unexpected child %#v", projects)
	}

	if _, err := svc.AddGoal(ctx, "Work", "write report #q3"); err != nil {
		t.Fatalf("add goal: %v", err)
	}
	dto, err := svc.AddGoal(ctx, "Work", "[icon::🚀] ship it [impact::4][costs::2]")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if dto.Position != 1 || dto.Icons != "🚀" || dto.Rating == "" || dto.Fields["impact"] != "4" {
		t.Fatalf("unexpected goal %#v", dto)
	}

	list, goals, err := svc.Show(ctx, ShowOptions{List: work.ID})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if list.GoalCount != 2 || list.OpenCount != 2 {
		t.Fatalf("unexpected counts %#v", list)
	}
	want := []string{"[icon::🚀] ship it [impact::4][costs::2]", "write report #q3"}
	if !equal(texts(goals), want) {
		t.Fatalf("goals = %v, want %v", texts(goals), want)
	}

	_, tagged, err := svc.Show(ctx, ShowOptions{List: "Work", Filter: state.Filter{Tag: "q3"}})
	if err != nil {
		t.Fatalf("show tagged: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Position != 2 {
		t.Fatalf("tag filter kept wrong goals: %#v", tagged)
	}

	lists, err := svc.Lists(ctx)
	if err != nil || len(lists) != 2 {
		t.Fatalf("lists = %#v, %v", lists, err)
	}
}

func TestServiceToggleAndReference(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	for _, name := range []string{"Work", "Today"} {
		if _, err := svc.AddList(ctx, name, "", ""); err != nil {
			t.Fatalf("add list: %v", err)
		}
	}
	if _, err := svc.AddGoal(ctx, "Work", "call back"); err != nil {
		t.Fatalf("add goal: %v", err)
	}

	ref, err := svc.Reference(ctx, "Work", "1", "Today", false)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if len(ref.Lists) != 2 {
		t.Fatalf("expected two placements, got %v", ref.Lists)
	}
	if _, err := svc.Reference(ctx, "Work", "1", "Today", false); !errors.Is(err, state.ErrAlreadyPresent) {
		t.Fatalf("second reference: %v", err)
	}

	done, err := svc.Toggle(ctx, "Today", "1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !done.Completed {
		t.Fatal("expected goal to be completed")
	}
	_, goals, err := svc.Show(ctx, ShowOptions{List: "Work"})
	if err != nil || len(goals) != 1 || !goals[0].Completed {
		t.Fatalf("shared goal not completed in Work: %#v, %v", goals, err)
	}

	copied, err := svc.Reference(ctx, "Work", "1", "Today", true)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.ID == done.ID {
		t.Fatal("copy shares the goal id")
	}
}

func TestServiceShowsAssociations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.AddList(ctx, "Work", "", ""); err != nil {
		t.Fatalf("add list: %v", err)
	}
	today, err := svc.AddList(ctx, "Today", "", "")
	if err != nil {
		t.Fatalf("add list: %v", err)
	}
	g, err := svc.AddGoal(ctx, "Work", "call back")
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if _, err := svc.App.Dispatch(ctx, state.AssociateGoal{GoalID: g.ID, ListID: today.ID}); err != nil {
		t.Fatalf("associate: %v", err)
	}

	_, goals, err := svc.Show(ctx, ShowOptions{List: "Work"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(goals) != 1 || !equal(goals[0].AssociatedListIDs, []string{today.ID}) {
		t.Fatalf("associations not reported: %#v", goals)
	}
}

func TestServiceMoveRemoveSort(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.AddList(ctx, "Work", "", ""); err != nil {
		t.Fatalf("add list: %v", err)
	}
	if _, err := svc.Import(ctx, "Work", "- low [rating::1]\n- none\n- high [rating::9]\n"); err != nil {
		t.Fatalf("import: %v", err)
	}

	sorted, err := svc.Sort(ctx, "Work")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := []string{"high [rating::9]", "low [rating::1]", "none"}
	if !equal(texts(sorted), want) {
		t.Fatalf("sorted = %v, want %v", texts(sorted), want)
	}

	moved, err := svc.Move(ctx, "Work", "3", "", 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Position != 1 || moved.Text != "none" {
		t.Fatalf("unexpected move result %#v", moved)
	}

	if err := svc.Remove(ctx, "Work", "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, goals, _ := svc.Show(ctx, ShowOptions{List: "Work"})
	if !equal(texts(goals), want[:2]) {
		t.Fatalf("after remove = %v", texts(goals))
	}

	md, err := svc.Export(ctx, "Work", state.Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if md != "# Work\n\n- [ ] high [rating::9]\n- [ ] low [rating::1]\n" {
		t.Fatalf("export = %q", md)
	}
}

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	for _, name := range []string{"Work", "Home"} {
		if _, err := svc.AddList(ctx, name, "", ""); err != nil {
			t.Fatalf("add list: %v", err)
		}
	}
	if _, err := svc.Import(ctx, "Work", "Pay invoices\nPlan sprint"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := svc.Import(ctx, "Home", "pay rent"); err != nil {
		t.Fatalf("import: %v", err)
	}

	found, err := svc.Search(ctx, "PAY", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !equal(texts(found), []string{"Pay invoices", "pay rent"}) {
		t.Fatalf("found = %v", texts(found))
	}
	limited, _ := svc.Search(ctx, "pay", 1)
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %v", texts(limited))
	}
	if _, err := svc.Search(ctx, "  ", 0); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestServiceUnknownList(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddGoal(context.Background(), "Nope", "x"); !errors.Is(err, app.ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
	if _, err := NewService(nil).Lists(context.Background()); err == nil {
		t.Fatal("expected error without app service")
	}
}

func TestArgument(t *testing.T) {
	args := map[string]any{"a": "x", "b": []string{"y"}, "c": 3}
	if argument(args, "a") != "x" || argument(args, "b") != "y" || argument(args, "c") != "" {
		t.Fatal("unexpected template argument decoding")
	}
}
