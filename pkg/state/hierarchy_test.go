package state

import (
	"errors"
	"reflect"
	"testing"
)

// forest builds Work > Projects > Launch and a separate Home list.
func forest(t *testing.T) (s *Store, work, projects, launch, home string) {
	t.Helper()
	s = newTestStore(t)
	work = addList(t, s, "Work", "")
	projects = addList(t, s, "Projects", work)
	launch = addList(t, s, "Launch", projects)
	home = addList(t, s, "Home", "")
	return
}

func TestAddListOrdering(t *testing.T) {
	s, work, projects, _, home := forest(t)
	admin := addList(t, s, "Admin", work)

	snap := s.Snapshot()
	if want := []string{work, home}; !reflect.DeepEqual(snap.RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", snap.RootListIDs, want)
	}
	if want := []string{projects, admin}; !reflect.DeepEqual(snap.Lists[work].ChildListIDs, want) {
		t.Fatalf("children = %v, want %v", snap.Lists[work].ChildListIDs, want)
	}
	if snap.Lists[admin].ParentID != work {
		t.Fatalf("parent = %q", snap.Lists[admin].ParentID)
	}
}

func TestAddListMissingParent(t *testing.T) {
	s := newTestStore(t)
	res := s.Dispatch(AddList{Name: "Lost", ParentID: "nope"})
	if res.Status != Ignored {
		t.Fatalf("status = %s", res.Status)
	}
	if len(s.Snapshot().Lists) != 0 {
		t.Fatalf("expected nothing created")
	}
}

func TestRenameList(t *testing.T) {
	s := newTestStore(t)
	work := addList(t, s, "Work", "")
	desc := "day job"
	mustApply(t, s, RenameList{ListID: work, Name: "Office", Description: &desc})
	mustApply(t, s, RenameList{ListID: work, Name: "Job"})

	l, _ := s.View().List(work)
	if l.Name != "Job" || l.Description != "day job" {
		t.Fatalf("got %q / %q", l.Name, l.Description)
	}
}

func TestMoveListRejectsCycles(t *testing.T) {
	s, work, projects, launch, _ := forest(t)
	before := s.Snapshot()

	cases := []MoveList{
		{ListID: work, DestParentID: work},
		{ListID: work, DestParentID: projects},
		{ListID: work, DestParentID: launch},
		{ListID: projects, SourceParentID: work, DestParentID: launch},
	}
	for _, a := range cases {
		res := s.Dispatch(a)
		if res.Status != Rejected {
			t.Fatalf("move %s under %s: status = %s", a.ListID, a.DestParentID, res.Status)
		}
		var cyc *CyclicMoveError
		if !errors.As(res.Err(), &cyc) || cyc.ListID != a.ListID {
			t.Fatalf("expected cyclic move error, got %v", res.Err())
		}
		if !sameState(before, s.Snapshot()) {
			t.Fatalf("rejected move changed the hierarchy")
		}
	}
}

func TestMoveList(t *testing.T) {
	s, work, projects, launch, home := forest(t)

	mustApply(t, s, MoveList{ListID: launch, SourceParentID: projects, DestParentID: "", DestIndex: 0})
	snap := s.Snapshot()
	if want := []string{launch, work, home}; !reflect.DeepEqual(snap.RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", snap.RootListIDs, want)
	}
	if len(snap.Lists[projects].ChildListIDs) != 0 {
		t.Fatalf("launch still listed under projects")
	}
	if !snap.Lists[launch].IsRoot() {
		t.Fatalf("launch parent = %q", snap.Lists[launch].ParentID)
	}

	mustApply(t, s, MoveList{ListID: work, SourceParentID: "", DestParentID: home, DestIndex: 99})
	snap = s.Snapshot()
	if want := []string{launch, home}; !reflect.DeepEqual(snap.RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", snap.RootListIDs, want)
	}
	if want := []string{work}; !reflect.DeepEqual(snap.Lists[home].ChildListIDs, want) {
		t.Fatalf("home children = %v", snap.Lists[home].ChildListIDs)
	}
	if snap.Lists[work].IsRoot() {
		t.Fatalf("work still at the top level")
	}
}

func TestMoveListWithinParent(t *testing.T) {
	s, work, _, _, home := forest(t)
	extra := addList(t, s, "Extra", "")

	mustApply(t, s, MoveList{ListID: work, DestIndex: -1})
	if want := []string{home, extra, work}; !reflect.DeepEqual(s.Snapshot().RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", s.Snapshot().RootListIDs, want)
	}
}

func TestMoveListStaleSource(t *testing.T) {
	s, _, projects, launch, home := forest(t)
	res := s.Dispatch(MoveList{ListID: launch, SourceParentID: home, DestParentID: ""})
	if res.Status != Ignored || !errors.Is(res.Err(), ErrNotFound) {
		t.Fatalf("got %s %v", res.Status, res.Err())
	}
	if l, _ := s.View().List(launch); l.ParentID != projects {
		t.Fatalf("launch moved despite stale source")
	}

	res = s.Dispatch(MoveList{ListID: launch, SourceParentID: projects, DestParentID: "nope"})
	if res.Status != Ignored {
		t.Fatalf("missing destination: status = %s", res.Status)
	}
}

func TestPasteList(t *testing.T) {
	s, work, projects, launch, home := forest(t)

	mustApply(t, s, PasteList{ListID: launch, TargetID: home, AsChild: true})
	snap := s.Snapshot()
	if want := []string{launch}; !reflect.DeepEqual(snap.Lists[home].ChildListIDs, want) {
		t.Fatalf("home children = %v", snap.Lists[home].ChildListIDs)
	}

	mustApply(t, s, PasteList{ListID: projects, TargetID: work})
	snap = s.Snapshot()
	if want := []string{work, projects, home}; !reflect.DeepEqual(snap.RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", snap.RootListIDs, want)
	}

	// work sits before home in the same ordering.
	mustApply(t, s, PasteList{ListID: work, TargetID: home})
	if want := []string{projects, home, work}; !reflect.DeepEqual(s.Snapshot().RootListIDs, want) {
		t.Fatalf("roots = %v, want %v", s.Snapshot().RootListIDs, want)
	}

	before := s.Snapshot()
	mustApply(t, s, PasteList{ListID: home, TargetID: home})
	if !sameState(before, s.Snapshot()) {
		t.Fatalf("pasting a list next to itself changed the hierarchy")
	}

	res := s.Dispatch(PasteList{ListID: home, TargetID: launch, AsChild: true})
	if res.Status != Rejected {
		t.Fatalf("paste into own descendant: status = %s", res.Status)
	}
	mustApply(t, s, PasteList{ListID: launch, AsChild: true})
	if got := s.Snapshot().RootListIDs; got[len(got)-1] != launch {
		t.Fatalf("child paste without target should land at the top level end, got %v", got)
	}
}

func TestRemoveListCascades(t *testing.T) {
	s, work, projects, launch, home := forest(t)
	shared := addGoal(t, s, launch, "shared")
	mustApply(t, s, ReferenceGoal{DestListID: home, GoalID: shared.GoalID})
	only := addGoal(t, s, projects, "only here")
	mustApply(t, s, AssociateGoal{GoalID: shared.GoalID, ListID: projects})

	mustApply(t, s, RemoveList{ListID: work})

	snap := s.Snapshot()
	for _, id := range []string{work, projects, launch} {
		if _, ok := snap.Lists[id]; ok {
			t.Fatalf("list %s survived removal", id)
		}
	}
	if want := []string{home}; !reflect.DeepEqual(snap.RootListIDs, want) {
		t.Fatalf("roots = %v", snap.RootListIDs)
	}
	if _, ok := snap.Instances[shared.InstanceID]; ok {
		t.Fatalf("instance in removed list survived")
	}
	if g := snap.Goals[shared.GoalID]; g == nil || len(g.AssociatedListIDs) != 0 {
		t.Fatalf("shared goal = %#v, want kept without associations", g)
	}
	if _, ok := snap.Goals[only.GoalID]; !ok {
		t.Fatalf("goals are kept by default when their list goes away")
	}
	if got := NewView(snap).Items(home, Filter{}); len(got) != 1 {
		t.Fatalf("home should still show the shared goal, got %d items", len(got))
	}
}

func TestRemoveChildListDetachesFromParent(t *testing.T) {
	s, work, projects, _, _ := forest(t)
	mustApply(t, s, RemoveList{ListID: projects})
	if l, _ := s.View().List(work); len(l.ChildListIDs) != 0 {
		t.Fatalf("work children = %v", l.ChildListIDs)
	}
}
