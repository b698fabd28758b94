// Package key provides CLI helpers to display the marker legend.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/goals/pkg/annotate"
	"tableflip.dev/goals/pkg/printers"
)

// Key prints the markers recognised in goal text and the rating fields.
type Key struct {
	// Section limits output to "markers" or "fields"; empty prints both.
	Section string
	Out     io.Writer
}

// Do renders the marker and field keys.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = printers.Stdout()
	}
	switch k.Section {
	case "", "markers", "fields":
	default:
		return fmt.Errorf("unknown key section %q, expected markers or fields", k.Section)
	}
	_, _ = fmt.Fprintln(out, "")
	if k.Section != "fields" {
		k.Markers(ctx, out, annotate.DefaultMarkers())
		_, _ = fmt.Fprintln(out, "")
	}
	if k.Section != "markers" {
		k.Fields(ctx, out)
		_, _ = fmt.Fprintln(out, "")
	}
	return nil
}

// Markers renders a marker table in match order.
func (k *Key) Markers(_ context.Context, out io.Writer, markers []annotate.Marker) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Icon"), bold.Sprint("Marker"), bold.Sprint("Where"), bold.Sprint("Meaning"))
	for _, m := range markers {
		tbl.AddRow(m.Icon, m.Token, m.Position.String(), m.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}

// Fields renders the fields that feed a goal's rating, in priority order.
func (k *Key) Fields(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Fields"), bold.Sprint("Rating"))
	tbl.AddRow("[parent_value::][impact::][costs::]", string(annotate.SourceParentValue))
	tbl.AddRow("[rating::] [value::] [priority::] [p::]", "taken as is")
	tbl.AddRow("[impact::][costs::]", string(annotate.SourceImpactPerCost))
	tbl.AddRow("[impact::]", string(annotate.SourceImpact))
	tbl.AddRow("[costs::]", string(annotate.SourceCosts))
	tbl.AddRow("[icon::]", "custom icon, no rating")

	_, _ = fmt.Fprintln(out, tbl)
}
