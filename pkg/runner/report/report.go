// Package report prints completed goals for a time window, and open goals
// that have gone stale.
package report

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/timeutil"
)

type Report struct {
	Service *app.Service
	// Window is a duration such as "3d" or "1w2d"; empty means one week.
	Window string
	// Review lists open goals untouched for the window instead.
	Review bool
	ShowID bool
	Out    io.Writer
	Now    func() time.Time
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("report: no service configured")
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	until := now()
	since, label, err := timeutil.Since(until, n.Window)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	if n.Review {
		items, err := n.Service.Review(ctx, since)
		if err != nil {
			return err
		}
		pp.NewLine()
		pp.TitleWithCount("Untouched for "+label, len(items))
		pp.Review(items)
		return nil
	}

	result, err := n.Service.Report(ctx, since, until)
	if err != nil {
		return err
	}
	pp.Report(result, label)
	return nil
}
