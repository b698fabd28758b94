// Package show prints the goals of one list, or of every list.
package show

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
	"tableflip.dev/goals/pkg/transfer"
)

type Show struct {
	Service *app.Service
	// List is an id or path; empty shows every list in tree order.
	List   string
	Filter state.Filter

	ShowID bool
	Width  int
	// Markdown renders each list as a Markdown checklist.
	Markdown bool
	// Watch reprints whenever another process changes the store.
	Watch bool
	Out   io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("show: no service configured")
	}
	if err := n.print(ctx); err != nil {
		return err
	}
	if !n.Watch {
		return nil
	}

	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == store.EventClipboardChanged {
				continue
			}
			if err := n.Service.Reload(ctx); err != nil {
				return err
			}
			if err := n.print(ctx); err != nil {
				return err
			}
		}
	}
}

func (n *Show) out() io.Writer {
	if n.Out == nil {
		return printers.Stdout()
	}
	return n.Out
}

func (n *Show) associated(v *state.View, listID string) []*goal.Goal {
	all := v.Associated(listID)
	if !n.Filter.HideCompleted {
		return all
	}
	open := all[:0]
	for _, g := range all {
		if !g.Completed {
			open = append(open, g)
		}
	}
	return open
}

func (n *Show) print(ctx context.Context) error {
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}

	var lists []state.Node
	if n.List == "" {
		lists = v.Tree()
	} else {
		l, err := n.Service.ResolveList(ctx, n.List)
		if err != nil {
			return err
		}
		lists = []state.Node{{List: l}}
	}

	if n.Markdown {
		var b strings.Builder
		for _, node := range lists {
			b.WriteString(transfer.Markdown(strings.Join(v.Path(node.List.ID), " / "), v.Items(node.List.ID, n.Filter)))
			b.WriteString("\n")
		}
		out, err := printers.Markdown(b.String(), n.Width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(n.out(), out)
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width, Out: n.out()}
	pp.NewLine()
	for _, node := range lists {
		items := v.Items(node.List.ID, n.Filter)
		pp.TitleWithCount(strings.Join(v.Path(node.List.ID), " / "), len(items))
		pp.Items(items)
		pp.Associated(n.associated(v, node.List.ID))
	}
	return nil
}
