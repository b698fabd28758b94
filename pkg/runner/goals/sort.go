package goals

import (
	"context"
	"fmt"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/state"
)

// Sort orders a list by rating: rated goals highest first, then unrated,
// then completed. DryRun prints the order without committing it.
type Sort struct {
	Service *app.Service
	List    string
	DryRun  bool
	Output
}

func (n *Sort) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	l, err := n.Service.ResolveList(ctx, n.List)
	if err != nil {
		return err
	}
	if !n.DryRun {
		if _, err := n.Service.Dispatch(ctx, state.SortByRating{ListID: l.ID}); err != nil {
			return err
		}
		return n.show(ctx, n.Service, l.ID)
	}

	v, err := n.Service.View(ctx)
	if err != nil {
		return err
	}
	byInstance := make(map[string]state.Item)
	for _, it := range v.Items(l.ID, state.Filter{}) {
		byInstance[it.Instance.ID] = it
	}
	for i, id := range v.RatingOrder(l.ID) {
		it, ok := byInstance[id]
		if !ok {
			continue
		}
		label := "-"
		if it.Parsed.Rating != nil {
			label = it.Parsed.Rating.Label
		}
		_, _ = fmt.Fprintf(n.writer(), "%3d. %-8s %s\n", i+1, label, it.Parsed.MainText)
	}
	return nil
}
