package lists

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
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

func setup(t *testing.T) (*app.Service, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	svc := &app.Service{Persistence: &memoryPersistence{}}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, &bytes.Buffer{}
}

func TestAddNestedAndTree(t *testing.T) {
	ctx := context.Background()
	svc, buf := setup(t)
	for _, a := range []Add{
		{Name: "Work"},
		{Name: "Projects", Parent: "Work"},
		{Name: "Launch", Parent: "Work/Projects", Description: "q3"},
	} {
		a.Service = svc
		a.Tree.Out = buf
		if err := a.Do(ctx); err != nil {
			t.Fatalf("add %s: %v", a.Name, err)
		}
	}
	buf.Reset()
	if err := (&Tree{Service: svc, Out: buf}).Do(ctx); err != nil {
		t.Fatalf("tree: %v", err)
	}
	want := "\nWork (0)\n  Projects (0)\n    Launch (0)  q3\n\n"
	if buf.String() != want {
		t.Fatalf("tree = %q, want %q", buf.String(), want)
	}
}

func TestMoveIntoOwnSubtree(t *testing.T) {
	ctx := context.Background()
	svc, buf := setup(t)
	for _, a := range []Add{{Name: "Work"}, {Name: "Projects", Parent: "Work"}} {
		a.Service = svc
		a.Tree.Out = buf
		if err := a.Do(ctx); err != nil {
			t.Fatal(err)
		}
	}
	err := (&Move{Service: svc, List: "Work", Parent: "Work/Projects", Tree: Tree{Out: buf}}).Do(ctx)
	if err == nil || !strings.Contains(err.Error(), "own subtree") {
		t.Fatalf("expected subtree error, got %v", err)
	}
	if code := options.ErrorCode(err); code != "cyclic_move" {
		t.Fatalf("move error code = %q", code)
	}

	if err := (&Cut{Service: svc, List: "Work", Out: buf}).Do(ctx); err != nil {
		t.Fatalf("cut: %v", err)
	}
	err = (&Paste{Service: svc, Target: "Work/Projects", AsChild: true, Tree: Tree{Out: buf}}).Do(ctx)
	if err == nil || !strings.Contains(err.Error(), "own subtree") {
		t.Fatalf("expected subtree error on paste, got %v", err)
	}
	if code := options.ErrorCode(err); code != "cyclic_move" {
		t.Fatalf("paste error code = %q", code)
	}
}

func TestCutPaste(t *testing.T) {
	ctx := context.Background()
	svc, buf := setup(t)
	for _, a := range []Add{{Name: "A"}, {Name: "B"}, {Name: "C"}} {
		a.Service = svc
		a.Tree.Out = buf
		if err := a.Do(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := (&Cut{Service: svc, List: "C", Out: buf}).Do(ctx); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if err := (&Paste{Service: svc, Target: "A", Tree: Tree{Out: buf}}).Do(ctx); err != nil {
		t.Fatalf("paste: %v", err)
	}
	v, _ := svc.View(ctx)
	var names []string
	for _, l := range v.Roots() {
		names = append(names, l.Name)
	}
	if strings.Join(names, ",") != "A,C,B" {
		t.Fatalf("roots = %v", names)
	}
}
