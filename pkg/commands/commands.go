package commands

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/commands/options"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
)

var (
	output  = &options.OutputOptions{}
	verbose bool
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "goals",
		Short: options.Wrap80("Nested goal lists on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log ignored and rejected changes to stderr.")
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addList(topLevel)
	addGoal(topLevel)
	addShow(topLevel)
	addSort(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addOpen(topLevel)
	addLink(topLevel)
	addTags(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addReport(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func loadService() (*app.Service, store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := &app.Service{
		Persistence: p,
		Scheme:      cfg.Scheme(),
		Orphans:     state.ParseOrphanPolicy(cfg.OrphanPolicy()),
		SaveDelay:   250 * time.Millisecond,
	}
	if verbose {
		svc.Logger = log.New(os.Stderr, "goals: ", 0)
	}
	return svc, cfg, nil
}

// run opens the store, runs fn and flushes pending writes before returning.
func run(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	cmd.SilenceUsage = true
	svc, _, err := loadService()
	if err != nil {
		return output.HandleError(err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = fn(ctx, svc)
	if cerr := svc.Close(); err == nil {
		err = cerr
	}
	return output.HandleError(err)
}
