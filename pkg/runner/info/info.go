package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/printers"
	"tableflip.dev/goals/pkg/store"
)

// Info describes where goals are stored and what the store holds.
type Info struct {
	Config  store.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = printers.Stdout()
	}

	source := "GOALS_CONFIG_PATH env var not set"
	if override := os.Getenv("GOALS_CONFIG_PATH"); override != "" {
		source = override
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	if n.Service == nil {
		return fmt.Errorf("info: failed to create service")
	}
	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	snap := v.Snapshot()
	completed := 0
	for _, g := range snap.Goals {
		if g.Completed {
			completed++
		}
	}

	rows := [][2]string{
		{"Config", source},
		{"Path", n.Config.BasePath()},
		{"Orphans", n.Config.OrphanPolicy()},
		{"Links", n.Config.Scheme() + "://"},
		{"Lists", fmt.Sprint(len(snap.Lists))},
		{"Goals", fmt.Sprintf("%d (%d completed)", len(snap.Goals), completed)},
		{"Placements", fmt.Sprint(len(snap.Instances))},
		{"Unplaced", fmt.Sprint(len(v.Orphans()))},
	}
	_, _ = fmt.Fprintln(out, printers.Card("goals", rows))
	return nil
}
