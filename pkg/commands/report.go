package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/report"
	"tableflip.dev/goals/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var last string
	var review bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed goals grouped by list",
		Long: `Report lists completed goals grouped by list within the specified time window.
With --review it lists open goals nobody has touched within the window instead.

Examples:
  goals report
  goals report --last 3d
  goals report --review --last 2w`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := report.Report{Service: svc, Window: last, Review: review, ShowID: io.ShowID}
				return r.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	cmd.Flags().BoolVar(&review, "review", false, "list stale open goals instead")
	topLevel.AddCommand(cmd)
}
