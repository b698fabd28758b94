package options

import (
	"github.com/spf13/cobra"
)

// WidthOptions
type WidthOptions struct {
	Width int
}

func AddWidthArgs(cmd *cobra.Command, o *WidthOptions) {
	cmd.Flags().IntVarP(&o.Width, "width", "w", 100,
		"Wrap goal text at this many columns, 0 disables wrapping.")
}
