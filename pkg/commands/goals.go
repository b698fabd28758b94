package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/goals"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals", "g"},
		Short:   "Add, change and place goals",
		Long: `Goals are addressed inside a list by their 1-based position, their id or
a unique id prefix, as printed by "goals show -k".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newGoalAddCmd(),
		newGoalToggleCmd(),
		newGoalEditCmd(),
		newGoalRemoveCmd(),
		newGoalMoveCmd(),
		newGoalRefCmd(false),
		newGoalRefCmd(true),
		newGoalPurgeCmd(),
		newGoalAssociateCmd(false),
		newGoalAssociateCmd(true),
	)
	topLevel.AddCommand(cmd)
}

// goalFlags are shared by commands that print the affected list.
type goalFlags struct {
	list  options.ListOptions
	id    options.IDOptions
	width options.WidthOptions
	quiet bool
}

func (f *goalFlags) add(cmd *cobra.Command) {
	options.AddListArgs(cmd, &f.list)
	options.AddShowIDArgs(cmd, &f.id)
	options.AddWidthArgs(cmd, &f.width)
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Do not print the list afterwards.")
	registerListCompletion(cmd, "list")
}

func (f *goalFlags) output() goals.Output {
	return goals.Output{ShowID: f.id.ShowID, Width: f.width.Width, Quiet: f.quiet}
}

func newGoalAddCmd() *cobra.Command {
	f := &goalFlags{}
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a goal to the top of a list",
		Example: `
goals goal add -l Work "Ship the release [impact::8][costs::3] #urgent"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Add{Service: svc, List: f.list.List, Text: strings.Join(args, " "), Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newGoalToggleCmd() *cobra.Command {
	f := &goalFlags{}
	cmd := &cobra.Command{
		Use:     "toggle <goal>",
		Aliases: []string{"done", "complete"},
		Short:   "Flip a goal between open and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Toggle{Service: svc, List: f.list.List, Item: args[0], Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newGoalEditCmd() *cobra.Command {
	f := &goalFlags{}
	cmd := &cobra.Command{
		Use:   "edit <goal> <text>",
		Short: "Replace the text of a goal everywhere it is placed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Edit{Service: svc, List: f.list.List, Item: args[0], Text: strings.Join(args[1:], " "), Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newGoalRemoveCmd() *cobra.Command {
	f := &goalFlags{}
	cmd := &cobra.Command{
		Use:     "rm <goal>",
		Aliases: []string{"remove"},
		Short:   "Take a goal out of one list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Remove{Service: svc, List: f.list.List, Item: args[0], Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	return cmd
}

func newGoalMoveCmd() *cobra.Command {
	f := &goalFlags{}
	var dest string
	var position int
	cmd := &cobra.Command{
		Use:     "mv <goal>",
		Aliases: []string{"move"},
		Short:   "Move a goal to --to, or within its list with --position",
		Example: `
goals goal mv -l Inbox 3 --to Work
goals goal mv -l Work 5 --position 1
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Move{Service: svc, List: f.list.List, Item: args[0], Dest: dest, Position: position, Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	cmd.Flags().StringVar(&dest, "to", "", "Destination list, defaults to the source list.")
	cmd.Flags().IntVar(&position, "position", 0, "1-based position in the destination, 0 appends.")
	registerListCompletion(cmd, "to")
	return cmd
}

func newGoalRefCmd(asCopy bool) *cobra.Command {
	f := &goalFlags{}
	var dest string
	var position int
	use, short := "ref <goal>", "Place the same goal in another list too"
	if asCopy {
		use, short = "copy <goal>", "Copy a goal into another list as a new, independent goal"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.list.Require(); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Reference{
					Service:  svc,
					List:     f.list.List,
					Item:     args[0],
					Dest:     dest,
					Position: position,
					Copy:     asCopy,
					Output:   f.output(),
				}
				return r.Do(ctx)
			})
		},
	}
	f.add(cmd)
	cmd.Flags().StringVar(&dest, "to", "", "Destination list.")
	cmd.Flags().IntVar(&position, "position", 0, "1-based position in the destination, 0 is the top.")
	_ = cmd.MarkFlagRequired("to")
	registerListCompletion(cmd, "to")
	return cmd
}

func newGoalPurgeCmd() *cobra.Command {
	quiet := false
	cmd := &cobra.Command{
		Use:   "purge <goal id>",
		Short: "Delete a goal from every list it is in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Purge{Service: svc, Goal: args[0], Output: goals.Output{Quiet: quiet}}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Print nothing.")
	return cmd
}

func newGoalAssociateCmd(remove bool) *cobra.Command {
	use, short := "associate <goal id> <list>", "Cross-link a goal to a list without placing it there"
	if remove {
		use, short = "disassociate <goal id> <list>", "Drop the cross-link between a goal and a list"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Associate{Service: svc, Goal: args[0], List: args[1], Remove: remove}
				return r.Do(ctx)
			})
		},
	}
}

func addSort(topLevel *cobra.Command) {
	f := &goalFlags{}
	dryRun := false
	cmd := &cobra.Command{
		Use:   "sort <list>",
		Short: "Order a list by rating, highest first",
		Long: `Sort orders a list by the rating derived from its goals' fields. Rated goals
come first, highest rating first, then unrated goals, then completed goals.
Goals that tie keep their relative order. Run "goals key" for the fields.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := goals.Sort{Service: svc, List: args[0], DryRun: dryRun, Output: f.output()}
				return r.Do(ctx)
			})
		},
	}
	options.AddShowIDArgs(cmd, &f.id)
	options.AddWidthArgs(cmd, &f.width)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the order without changing the list.")
	topLevel.AddCommand(cmd)
}
