// Package links prints and follows cross-navigation links between lists.
package links

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/runner/show"
	"tableflip.dev/goals/pkg/state"
)

var errNoService = errors.New("links: no service configured")

// Link prints the link of a list.
type Link struct {
	Service *app.Service
	List    string
	Out     io.Writer
}

func (n *Link) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	raw, err := n.Service.LinkFor(ctx, n.List)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = printers.Stdout()
	}
	_, err = fmt.Fprintln(out, raw)
	return err
}

// Open resolves a link and shows the list it names.
type Open struct {
	Service *app.Service
	Link    string
	Filter  state.Filter
	ShowID  bool
	Width   int
	Out     io.Writer
}

func (n *Open) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.OpenLink(ctx, n.Link)
	if err != nil {
		return err
	}
	s := show.Show{
		Service: n.Service,
		List:    l.ID,
		Filter:  n.Filter,
		ShowID:  n.ShowID,
		Width:   n.Width,
		Out:     n.Out,
	}
	return s.Do(ctx)
}
