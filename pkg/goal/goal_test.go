package goal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAssociateIsIdempotent(t *testing.T) {
	g := &Goal{ID: "g1"}
	if !g.Associate("work") {
		t.Fatal("expected first associate to change the set")
	}
	if g.Associate("work") {
		t.Fatal("expected second associate to be a no-op")
	}
	if len(g.AssociatedListIDs) != 1 {
		t.Fatalf("expected one association, got %v", g.AssociatedListIDs)
	}
	if !g.Disassociate("work") {
		t.Fatal("expected disassociate to change the set")
	}
	if g.Disassociate("work") {
		t.Fatal("expected second disassociate to be a no-op")
	}
	if g.AssociatedListIDs != nil {
		t.Fatalf("expected nil associations, got %v", g.AssociatedListIDs)
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	l := &List{ID: "l1", ChildListIDs: []string{"a"}, InstanceIDs: []string{"i1"}}
	cp := l.Clone()
	cp.ChildListIDs[0] = "b"
	cp.InstanceIDs = append(cp.InstanceIDs, "i2")
	if l.ChildListIDs[0] != "a" || len(l.InstanceIDs) != 1 {
		t.Fatalf("clone mutated original: %#v", l)
	}

	g := &Goal{ID: "g1", AssociatedListIDs: []string{"x"}}
	gc := g.Clone()
	gc.AssociatedListIDs[0] = "y"
	if g.AssociatedListIDs[0] != "x" {
		t.Fatalf("clone mutated original goal: %#v", g)
	}
}

func TestTimestampJSON(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 30, 0, 1500, time.UTC)
	in := Goal{ID: "g1", Text: "write", CreatedAt: At(now)}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Goal
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.CreatedAt.Equal(now) {
		t.Fatalf("created = %v, want %v", out.CreatedAt, now)
	}
	if !out.UpdatedAt.IsZero() {
		t.Fatalf("expected zero updatedAt, got %v", out.UpdatedAt)
	}
}
