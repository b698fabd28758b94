package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/links"
)

func addLink(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "link <list>",
		Short: "Print a link that opens a list",
		Example: `
goals link Work/Projects
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := links.Link{Service: svc, List: args[0]}
				return r.Do(ctx)
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addOpen(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	fo := &options.FilterOptions{}
	wo := &options.WidthOptions{}

	cmd := &cobra.Command{
		Use:   "open <link>",
		Short: "Show the list a link points at",
		Example: `
goals open goals://open-list/6f1c2d7e-1b2a-4c3d-9e8f-001122334455
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.Filter(time.Now())
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := links.Open{Service: svc, Link: args[0], Filter: filter, ShowID: io.ShowID, Width: wo.Width}
				return r.Do(ctx)
			})
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddFilterArgs(cmd, fo)
	options.AddWidthArgs(cmd, wo)
	topLevel.AddCommand(cmd)
}
