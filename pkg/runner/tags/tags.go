// Package tags prints the hashtags in use and how many goals carry each.
package tags

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
)

type Tags struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Tags) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("tags: no service configured")
	}
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = printers.Stdout()
	}
	index := v.TagIndex()
	if len(index) == 0 {
		_, _ = fmt.Fprintln(out, "no tags")
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Tag"), bold.Sprint("Goals"))
	for _, tc := range index {
		tbl.AddRow("#"+tc.Tag, tc.Count)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
