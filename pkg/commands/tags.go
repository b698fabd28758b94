package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/runner/tags"
)

func addTags(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List hashtags and how many goals carry each",
		Example: `
goals tags
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := tags.Tags{Service: svc}
				return r.Do(ctx)
			})
		},
	}
	topLevel.AddCommand(cmd)
}
