// Package transfer provides the import and export runners.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/transfer"
)

var errNoService = errors.New("transfer: no service configured")

// Import appends the goals read from File (stdin when empty or "-") to List.
type Import struct {
	Service *app.Service
	List    string
	File    string
	Format  app.Format
	In      io.Reader
	Out     io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	r := n.In
	if n.File != "" && n.File != "-" {
		f, err := os.Open(n.File)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if r == nil {
		r = os.Stdin
	}
	res, err := n.Service.Import(ctx, n.List, r, n.Format)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = printers.Stdout()
	}
	path, err := n.Service.PathOf(ctx, res.ListID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "imported %d goal(s) into %s\n", len(res.GoalIDs), path)
	return nil
}

// Export writes a list to File (stdout when empty or "-"). Render prints a
// terminal rendering of the Markdown instead.
type Export struct {
	Service *app.Service
	List    string
	File    string
	Format  app.Format
	Filter  state.Filter
	Render  bool
	Width   int
	Out     io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	w := n.Out
	if w == nil {
		w = printers.Stdout()
	}
	if n.File != "" && n.File != "-" {
		f, err := os.Create(n.File)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if !n.Render {
		return n.Service.Export(ctx, n.List, w, n.Format, n.Filter)
	}

	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	md := transfer.Markdown(strings.Join(v.Path(l.ID), " / "), v.Items(l.ID, n.Filter))
	out, err := printers.Markdown(md, n.Width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
