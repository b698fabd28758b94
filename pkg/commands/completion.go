package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/state"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(goals completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(goals completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// listCompletions returns the paths of lists starting with toComplete.
func listCompletions(toComplete string) []string {
	svc, _, err := loadService()
	if err != nil {
		return nil
	}
	defer svc.Close()
	v, err := svc.View(context.Background())
	if err != nil {
		return nil
	}
	return completePaths(v, toComplete)
}

func completePaths(v *state.View, toComplete string) []string {
	var out []string
	for _, n := range v.Tree() {
		path := strings.Join(v.Path(n.List.ID), "/")
		if strings.HasPrefix(strings.ToLower(path), strings.ToLower(toComplete)) {
			out = append(out, path)
		}
	}
	return out
}

func listArgCompletion(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return listCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func registerListCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return listCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}
