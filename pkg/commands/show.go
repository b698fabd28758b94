package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	fo := &options.FilterOptions{}
	wo := &options.WidthOptions{}
	var markdown, watch bool

	cmd := &cobra.Command{
		Use:   "show [list]",
		Short: "Print the goals of a list, or of every list",
		Example: `
goals show
goals show Work/Projects --open
goals show --tag urgent
goals show Inbox --watch
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := fo.Filter(time.Now())
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := show.Show{
					Service:  svc,
					Filter:   filter,
					ShowID:   io.ShowID,
					Width:    wo.Width,
					Markdown: markdown,
					Watch:    watch,
				}
				if len(args) == 1 {
					s.List = args[0]
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddFilterArgs(cmd, fo)
	options.AddWidthArgs(cmd, wo)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render lists as Markdown checklists.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and reprint when the goals change.")
	topLevel.AddCommand(cmd)
}
