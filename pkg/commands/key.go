package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key [markers|fields]",
		Short: "Print the markers and rating fields goals understand",
		Example: `
goals key
goals key fields
`,
		ValidArgs: []string{"markers", "fields"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{}
			if len(args) == 1 {
				k.Section = args[0]
			}
			return output.HandleError(k.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
