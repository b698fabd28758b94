// Package lists provides the runners that shape the list hierarchy.
package lists

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/state"
)

var errNoService = errors.New("lists: no service configured")

// Tree prints the list forest with goal counts.
type Tree struct {
	Service *app.Service
	ShowID  bool
	Out     io.Writer
}

func (n *Tree) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	nodes := v.Tree()
	counts := make(map[string]int, len(nodes))
	for _, node := range nodes {
		counts[node.List.ID] = len(node.List.InstanceIDs)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()
	pp.Tree(nodes, counts)
	return nil
}

// Add creates a list, under Parent when set.
type Add struct {
	Service     *app.Service
	Name        string
	Description string
	Parent      string
	Tree
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	var parentID string
	if n.Parent != "" {
		p, err := n.Service.ResolveList(ctx, n.Parent)
		if err != nil {
			return err
		}
		parentID = p.ID
	}
	if _, err := n.Service.Dispatch(ctx, state.AddList{Name: n.Name, Description: n.Description, ParentID: parentID}); err != nil {
		return err
	}
	return n.tree(ctx, n.Service)
}

func (t Tree) tree(ctx context.Context, svc *app.Service) error {
	t.Service = svc
	return t.Do(ctx)
}

// Rename changes a list's name, and its description when Description is set.
type Rename struct {
	Service     *app.Service
	List        string
	Name        string
	Description *string
	Tree
}

func (n *Rename) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	name := n.Name
	if name == "" {
		name = l.Name
	}
	if _, err := n.Service.Dispatch(ctx, state.RenameList{ListID: l.ID, Name: name, Description: n.Description}); err != nil {
		return err
	}
	return n.tree(ctx, n.Service)
}

// Remove deletes a list with everything below it.
type Remove struct {
	Service *app.Service
	List    string
	Tree
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	if _, err := n.Service.Dispatch(ctx, state.RemoveList{ListID: l.ID}); err != nil {
		return err
	}
	return n.tree(ctx, n.Service)
}

// Move re-parents a list. An empty Parent moves it to the top level;
// Position is 1-based and zero appends.
type Move struct {
	Service  *app.Service
	List     string
	Parent   string
	Position int
	Tree
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	var parentID string
	if n.Parent != "" {
		p, err := n.Service.ResolveList(ctx, n.Parent)
		if err != nil {
			return err
		}
		parentID = p.ID
	}
	_, err = n.Service.Dispatch(ctx, state.MoveList{
		ListID:         l.ID,
		SourceParentID: l.ParentID,
		DestParentID:   parentID,
		DestIndex:      n.Position - 1,
	})
	var cyc *state.CyclicMoveError
	if errors.As(err, &cyc) {
		return fmt.Errorf("cannot move %q into its own subtree: %w", l.Name, err)
	}
	if err != nil {
		return err
	}
	return n.tree(ctx, n.Service)
}

// Cut marks a list to be moved by a later Paste.
type Cut struct {
	Service *app.Service
	List    string
	Out     io.Writer
}

func (n *Cut) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.Cut(ctx, n.List)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = printers.Stdout()
	}
	_, _ = fmt.Fprintf(out, "cut %q, paste it with `goals list paste <target>`\n", l.Name)
	return nil
}

// Paste moves the cut list after Target, or under it with AsChild.
type Paste struct {
	Service *app.Service
	Target  string
	AsChild bool
	Tree
}

func (n *Paste) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	_, err := n.Service.Paste(ctx, n.Target, n.AsChild)
	var cyc *state.CyclicMoveError
	if errors.As(err, &cyc) {
		return fmt.Errorf("cannot paste a list into its own subtree: %w", err)
	}
	if err != nil {
		return err
	}
	return n.tree(ctx, n.Service)
}
