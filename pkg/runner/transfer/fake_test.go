package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

type memoryPersistence struct {
	mu   sync.Mutex
	snap *state.Snapshot
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
	return "", nil
}

func (m *memoryPersistence) SetClipboard(string) error {
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func newService(t *testing.T, opts ...state.Option) *app.Service {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	svc := &app.Service{Persistence: &memoryPersistence{}, StateOptions: opts}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func addList(t *testing.T, svc *app.Service, name string) string {
	t.Helper()
	res, err := svc.Dispatch(context.Background(), state.AddList{Name: name})
	if err != nil {
		t.Fatalf("add list %q: %v", name, err)
	}
	return res.ListID
}
