package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/lists"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists"},
		Short:   "Show and arrange the list hierarchy",
		Example: `
goals list
goals list add Work
goals list add Projects --parent Work
goals list mv Work/Projects --parent Home --position 1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Tree{Service: svc, ShowID: io.ShowID}
				return r.Do(ctx)
			})
		},
	}
	options.AddShowIDArgs(cmd, io)

	cmd.AddCommand(
		newListAddCmd(),
		newListRenameCmd(),
		newListRemoveCmd(),
		newListMoveCmd(),
		newListCutCmd(),
		newListPasteCmd(),
	)
	topLevel.AddCommand(cmd)
}

func newListAddCmd() *cobra.Command {
	var parent, description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a list, at the top level or under --parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Add{
					Service:     svc,
					Name:        strings.Join(args, " "),
					Description: description,
					Parent:      parent,
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent list id or path.")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Describe the list.")
	registerListCompletion(cmd, "parent")
	return cmd
}

func newListRenameCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:               "rename <list> [new name]",
		Short:             "Rename a list or change its description",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Rename{
					Service: svc,
					List:    args[0],
					Name:    strings.Join(args[1:], " "),
				}
				if cmd.Flags().Changed("description") {
					r.Description = &description
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description, empty clears it.")
	return cmd
}

func newListRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <list>",
		Aliases:           []string{"remove"},
		Short:             "Remove a list and every list below it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Remove{Service: svc, List: args[0]}
				return r.Do(ctx)
			})
		},
	}
}

func newListMoveCmd() *cobra.Command {
	var parent string
	var position int
	cmd := &cobra.Command{
		Use:               "mv <list>",
		Aliases:           []string{"move"},
		Short:             "Move a list under --parent, or to the top level",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Move{Service: svc, List: args[0], Parent: parent, Position: position}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "New parent list, empty for the top level.")
	cmd.Flags().IntVar(&position, "position", 0, "1-based position among the new siblings, 0 appends.")
	registerListCompletion(cmd, "parent")
	return cmd
}

func newListCutCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "cut <list>",
		Short:             "Mark a list to move with a later paste",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Cut{Service: svc, List: args[0]}
				return r.Do(ctx)
			})
		},
	}
}

func newListPasteCmd() *cobra.Command {
	var child bool
	cmd := &cobra.Command{
		Use:   "paste [target]",
		Short: "Move the cut list after target, or inside it with --child",
		Example: `
goals list cut Work/Old
goals list paste Home --child
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: listArgCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			if target == "" {
				child = true
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := lists.Paste{Service: svc, Target: target, AsChild: child}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().BoolVarP(&child, "child", "c", false, "Paste as the last child of target.")
	return cmd
}
