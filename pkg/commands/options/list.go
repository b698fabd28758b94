// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// ListOptions selects the list a command works on, by id or by a path such
// as "Work/Projects".
type ListOptions struct {
	List string
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringVarP(&o.List, "list", "l", "",
		`List id or path, example: --list="Work/Projects".`)
}

func (o *ListOptions) Require() error {
	if o.List == "" {
		return errors.New("requires --list")
	}
	return nil
}
