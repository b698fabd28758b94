package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/state"
)

// ReportItem captures a completed goal and when it was last touched.
type ReportItem struct {
	Goal        *goal.Goal
	CompletedAt time.Time
}

// ReportSection groups completed goals by list path.
type ReportSection struct {
	ListID string
	Path   string
	Goals  []ReportItem
}

// ReportResult encapsulates a completed-goals report for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	// Total counts distinct goals, so a goal placed in two lists counts once.
	Total int
}

// Report returns goals completed between the provided bounds, grouped by the
// lists that hold them in tree order. A goal's completion time is its last
// update.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	v, err := s.View(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{Since: since, Until: until}
	seen := make(map[string]bool)
	for _, node := range v.Tree() {
		var section *ReportSection
		for _, it := range v.Items(node.List.ID, state.Filter{}) {
			if !it.Goal.Completed {
				continue
			}
			at := lastTouched(it.Goal)
			if at.Before(since) || at.After(until) {
				continue
			}
			if section == nil {
				result.Sections = append(result.Sections, ReportSection{
					ListID: node.List.ID,
					Path:   strings.Join(v.Path(node.List.ID), "/"),
				})
				section = &result.Sections[len(result.Sections)-1]
			}
			section.Goals = append(section.Goals, ReportItem{Goal: it.Goal, CompletedAt: at})
			if !seen[it.Goal.ID] {
				seen[it.Goal.ID] = true
				result.Total++
			}
		}
	}
	return result, nil
}

// ReviewItem is an open goal that has not been touched for a while.
type ReviewItem struct {
	Goal        *goal.Goal
	Paths       []string
	LastTouched time.Time
}

// Review returns open goals untouched since before, oldest first. Goals in
// no list are included with no paths so they can be re-placed or purged.
func (s *Service) Review(ctx context.Context, before time.Time) ([]ReviewItem, error) {
	v, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	var out []ReviewItem
	for _, g := range v.Snapshot().Goals {
		if g.Completed {
			continue
		}
		last := lastTouched(g)
		if !last.Before(before) {
			continue
		}
		item := ReviewItem{Goal: g, LastTouched: last}
		for _, id := range v.PlacementsOf(g.ID) {
			item.Paths = append(item.Paths, strings.Join(v.Path(id), "/"))
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastTouched.Equal(out[j].LastTouched) {
			return out[i].LastTouched.Before(out[j].LastTouched)
		}
		return out[i].Goal.ID < out[j].Goal.ID
	})
	return out, nil
}

func lastTouched(g *goal.Goal) time.Time {
	if !g.UpdatedAt.IsZero() {
		return g.UpdatedAt.Time
	}
	return g.CreatedAt.Time
}
