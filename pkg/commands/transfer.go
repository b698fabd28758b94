package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/runner/transfer"
)

func addImport(topLevel *cobra.Command) {
	lo := &options.ListOptions{}
	var file, format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append goals from a checklist or YAML export to a list",
		Long: `Import reads one goal per line. Leading "-", "*", "+" or "1." bullets and
"[ ]" or "[x]" checkboxes are stripped; "[x]" marks the goal completed. Blank
lines are skipped. Goals keep their input order and go after existing goals.`,
		Example: `
goals import -l Inbox -f todo.md
pbpaste | goals import -l Inbox
goals export -l Work --format yaml | goals import -l Archive --format yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := lo.Require(); err != nil {
				return err
			}
			f, err := app.ParseFormat(format)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := transfer.Import{Service: svc, List: lo.List, File: file, Format: f, In: cmd.InOrStdin()}
				return r.Do(ctx)
			})
		},
	}

	options.AddListArgs(cmd, lo)
	registerListCompletion(cmd, "list")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "File to read, - for stdin.")
	cmd.Flags().StringVar(&format, "format", "md", "Input format, md or yaml.")
	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	lo := &options.ListOptions{}
	fo := &options.FilterOptions{}
	wo := &options.WidthOptions{}
	var file, format string
	var render bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a list as a Markdown checklist or YAML",
		Example: `
goals export -l Work > work.md
goals export -l Work --format yaml -f work.yaml
goals export -l Work --render
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := lo.Require(); err != nil {
				return err
			}
			f, err := app.ParseFormat(format)
			if err != nil {
				return err
			}
			filter, err := fo.Filter(time.Now())
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				r := transfer.Export{
					Service: svc,
					List:    lo.List,
					File:    file,
					Format:  f,
					Filter:  filter,
					Render:  render,
					Width:   wo.Width,
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddListArgs(cmd, lo)
	registerListCompletion(cmd, "list")
	options.AddFilterArgs(cmd, fo)
	options.AddWidthArgs(cmd, wo)
	cmd.Flags().StringVarP(&file, "file", "f", "-", "File to write, - for stdout.")
	cmd.Flags().StringVar(&format, "format", "md", "Output format, md or yaml.")
	cmd.Flags().BoolVar(&render, "render", false, "Render the Markdown for the terminal.")
	topLevel.AddCommand(cmd)
}
