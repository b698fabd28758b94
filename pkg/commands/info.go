package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about where goals are stored and what is in the store.",
		Example: `
goals info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, cfg, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config:  cfg,
				Service: svc,
			}
			err = s.Do(context.Background())
			if cerr := svc.Close(); err == nil {
				err = cerr
			}
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
