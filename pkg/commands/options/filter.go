package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/timeutil"
)

// FilterOptions narrows the goals a command prints.
type FilterOptions struct {
	HideCompleted bool
	Tag           string
	Query         string
	Since         string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().BoolVar(&o.HideCompleted, "open", false,
		"Hide completed goals.")
	cmd.Flags().StringVar(&o.Tag, "tag", "",
		"Only goals carrying this #tag.")
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Only goals whose text contains this, ignoring case.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		"Only goals changed within this window, for example 3d or 1w.")
}

func (o *FilterOptions) Filter(now time.Time) (state.Filter, error) {
	f := state.Filter{
		HideCompleted: o.HideCompleted,
		Tag:           o.Tag,
		Query:         o.Query,
	}
	if o.Since != "" {
		since, _, err := timeutil.Since(now, o.Since)
		if err != nil {
			return state.Filter{}, err
		}
		f.UpdatedSince = since
	}
	return f, nil
}
