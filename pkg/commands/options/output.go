package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/link"
	"tableflip.dev/goals/pkg/state"
)

// OutputOptions controls how command failures are reported.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Report errors as JSON with a machine readable code.")
}

// HandleError prints err as {"error", "code"} when JSON output is on and
// swallows it, so scripts can rely on stdout alone.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := map[string]string{
		"error": err.Error(),
		"code":  ErrorCode(err),
	}
	var le *link.LinkError
	if errors.As(err, &le) {
		out["error"] = le.Message
	}
	b, merr := json.Marshal(out)
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}

// ErrorCode classifies err for scripted callers.
func ErrorCode(err error) string {
	var (
		le    *link.LinkError
		cycle *state.CyclicMoveError
	)
	switch {
	case errors.As(err, &le):
		return string(le.Code)
	case errors.As(err, &cycle):
		return "cyclic_move"
	case errors.Is(err, app.ErrListNotFound), errors.Is(err, app.ErrGoalNotFound), errors.Is(err, state.ErrNotFound):
		return "not_found"
	case errors.Is(err, app.ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, state.ErrAlreadyPresent):
		return "already_present"
	case errors.Is(err, state.ErrValidation), errors.Is(err, state.ErrNotPermutation):
		return "invalid"
	default:
		return "error"
	}
}
