package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

type memoryPersistence struct {
	snap *state.Snapshot
}

func (m *memoryPersistence) Load(context.Context) (*state.Snapshot, error) {
	return m.snap.Clone(), nil
}

func (m *memoryPersistence) Save(snap *state.Snapshot) error {
	m.snap = snap.Clone()
	return nil
}

func (m *memoryPersistence) Clipboard() (string, error) { return "", nil }

func (m *memoryPersistence) SetClipboard(string) error { return nil }

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

type staticConfig struct{}

func (staticConfig) BasePath() string     { return "/tmp/goals.db" }
func (staticConfig) OrphanPolicy() string { return "keep" }
func (staticConfig) Scheme() string       { return "goals" }

func TestInfo(t *testing.T) {
	t.Setenv("GOALS_CONFIG_PATH", "")
	ctx := context.Background()
	svc := &app.Service{Persistence: &memoryPersistence{}}
	t.Cleanup(func() { _ = svc.Close() })

	res, err := svc.Dispatch(ctx, state.AddList{Name: "Work"})
	if err != nil {
		t.Fatalf("add list: %v", err)
	}
	if _, err := svc.Dispatch(ctx, state.AddGoal{ListID: res.ListID, Text: "one"}); err != nil {
		t.Fatalf("add goal: %v", err)
	}

	var out bytes.Buffer
	n := Info{Config: staticConfig{}, Service: svc, Out: &out}
	if err := n.Do(ctx); err != nil {
		t.Fatalf("info: %v", err)
	}
	got := out.String()
	for _, want := range []string{"/tmp/goals.db", "goals://", "1 (0 completed)", "not set"} {
		if !strings.Contains(got, want) {
			t.Fatalf("info output missing %q:\n%s", want, got)
		}
	}
}

func TestInfoNeedsService(t *testing.T) {
	n := Info{Config: staticConfig{}, Out: &bytes.Buffer{}}
	if err := n.Do(context.Background()); err == nil {
		t.Fatal("expected an error without a service")
	}
}
