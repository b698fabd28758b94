// Package goals provides the runners that change goals and their placements.
package goals

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/state"
)

var errNoService = errors.New("goals: no service configured")

// Output controls how the affected list is printed after a change.
type Output struct {
	ShowID bool
	Width  int
	Out    io.Writer
	// Quiet skips printing the list.
	Quiet bool
}

func (o Output) show(ctx context.Context, svc *app.Service, listID string) error {
	if o.Quiet || listID == "" {
		return nil
	}
	v, err := svc.View(ctx)
	if err != nil {
		return err
	}
	l, ok := v.List(listID)
	if !ok {
		return nil
	}
	pp := printers.PrettyPrint{ShowID: o.ShowID, Width: o.Width, Out: o.Out}
	items := v.Items(listID, state.Filter{})
	pp.NewLine()
	pp.TitleWithCount(l.Name, len(items))
	pp.Items(items)
	return nil
}

// Add creates a goal at the top of a list.
type Add struct {
	Service *app.Service
	List    string
	Text    string
	Output
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	if _, err := n.Service.Dispatch(ctx, state.AddGoal{ListID: l.ID, Text: n.Text}); err != nil {
		return err
	}
	return n.show(ctx, n.Service, l.ID)
}

// Toggle flips the completed state of the goal at Item in List.
type Toggle struct {
	Service *app.Service
	List    string
	Item    string
	Output
}

func (n *Toggle) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, it, err := n.Service.ResolveItem(ctx, n.List, n.Item)
	if err != nil {
		return err
	}
	if _, err := n.Service.Dispatch(ctx, state.ToggleGoal{GoalID: it.Goal.ID}); err != nil {
		return err
	}
	return n.show(ctx, n.Service, l.ID)
}

// Edit replaces a goal's text.
type Edit struct {
	Service *app.Service
	List    string
	Item    string
	Text    string
	Output
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, it, err := n.Service.ResolveItem(ctx, n.List, n.Item)
	if err != nil {
		return err
	}
	if _, err := n.Service.Dispatch(ctx, state.EditGoalText{GoalID: it.Goal.ID, Text: n.Text}); err != nil {
		return err
	}
	return n.show(ctx, n.Service, l.ID)
}

// Remove takes a goal out of one list. Other placements are untouched.
type Remove struct {
	Service *app.Service
	List    string
	Item    string
	Output
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, it, err := n.Service.ResolveItem(ctx, n.List, n.Item)
	if err != nil {
		return err
	}
	if _, err := n.Service.Dispatch(ctx, state.RemoveInstance{ListID: l.ID, InstanceID: it.Instance.ID}); err != nil {
		return err
	}
	return n.show(ctx, n.Service, l.ID)
}

// Move relocates a placement to Dest, at 1-based Position. Zero appends.
type Move struct {
	Service  *app.Service
	List     string
	Item     string
	Dest     string
	Position int
	Output
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, it, err := n.Service.ResolveItem(ctx, n.List, n.Item)
	if err != nil {
		return err
	}
	dest := l
	if n.Dest != "" {
		if dest, err = n.Service.ResolveList(ctx, n.Dest); err != nil {
			return err
		}
	}
	if _, err := n.Service.Dispatch(ctx, state.MoveInstance{
		InstanceID:   it.Instance.ID,
		SourceListID: l.ID,
		DestListID:   dest.ID,
		DestIndex:    n.Position - 1,
	}); err != nil {
		return err
	}
	return n.show(ctx, n.Service, dest.ID)
}

// Reference places an existing goal in another list. Copy instead creates
// an independent goal with the same text.
type Reference struct {
	Service  *app.Service
	List     string
	Item     string
	Dest     string
	Position int
	Copy     bool
	Output
}

func (n *Reference) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	_, it, err := n.Service.ResolveItem(ctx, n.List, n.Item)
	if err != nil {
		return err
	}
	dest, err := n.Service.ResolveList(ctx, n.Dest)
	if err != nil {
		return err
	}
	var index *int
	if n.Position > 0 {
		i := n.Position - 1
		index = &i
	}
	var a state.Action = state.ReferenceGoal{DestListID: dest.ID, GoalID: it.Goal.ID, DestIndex: index}
	if n.Copy {
		a = state.CopyGoal{GoalID: it.Goal.ID, DestListID: dest.ID, DestIndex: index}
	}
	if _, err := n.Service.Dispatch(ctx, a); err != nil {
		if errors.Is(err, state.ErrAlreadyPresent) {
			return fmt.Errorf("goal is already in %q: %w", dest.Name, err)
		}
		return err
	}
	return n.show(ctx, n.Service, dest.ID)
}

// Purge deletes a goal and every placement of it.
type Purge struct {
	Service *app.Service
	Goal    string
	Output
}

func (n *Purge) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	g, err := n.Service.ResolveGoal(ctx, n.Goal)
	if err != nil {
		return err
	}
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	placements := v.PlacementsOf(g.ID)
	if _, err := n.Service.Dispatch(ctx, state.PurgeGoal{GoalID: g.ID}); err != nil {
		return err
	}
	if n.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(n.writer(), "purged %q from %d list(s)\n", g.Text, len(placements))
	return nil
}

func (o Output) writer() io.Writer {
	if o.Out == nil {
		return printers.Stdout()
	}
	return o.Out
}

// Associate cross-links a goal to a list without placing it there. Remove
// unlinks it again.
type Associate struct {
	Service *app.Service
	Goal    string
	List    string
	Remove  bool
	Output
}

func (n *Associate) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	g, err := n.Service.ResolveGoal(ctx, n.Goal)
	if err != nil {
		return err
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	var a state.Action = state.AssociateGoal{GoalID: g.ID, ListID: l.ID}
	verb := "associated"
	if n.Remove {
		a = state.DisassociateGoal{GoalID: g.ID, ListID: l.ID}
		verb = "disassociated"
	}
	if _, err := n.Service.Dispatch(ctx, a); err != nil {
		return err
	}
	if !n.Quiet {
		_, _ = fmt.Fprintf(n.writer(), "%s %q with %q\n", verb, g.Text, l.Name)
	}
	return nil
}
