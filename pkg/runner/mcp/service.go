// Package mcp provides the Model Context Protocol server integration for goals.
package mcp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/link"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
	"tableflip.dev/goals/pkg/transfer"
)

// Service adapts app.Service to transport-friendly values.
type Service struct {
	App    *app.Service
	Scheme string
}

// NewService wraps svc.
func NewService(svc *app.Service) *Service {
	s := &Service{App: svc}
	if svc != nil {
		s.Scheme = svc.Scheme
	}
	return s
}

var errNoApp = errors.New("mcp: service is not configured")

// ListDTO describes a list and basic aggregate metadata.
type ListDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	Depth       int    `json:"depth"`
	GoalCount   int    `json:"goalCount"`
	OpenCount   int    `json:"openCount"`
	Link        string `json:"link"`
}

// GoalDTO is a transport-friendly projection of a placed goal.
type GoalDTO struct {
	ID           string            `json:"id"`
	InstanceID   string            `json:"instanceId,omitempty"`
	Position     int               `json:"position,omitempty"`
	Text         string            `json:"text"`
	Display      string            `json:"display"`
	Completed    bool              `json:"completed"`
	Icons        string            `json:"icons,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Rating       string            `json:"rating,omitempty"`
	RatingSource string            `json:"ratingSource,omitempty"`
	Lists        []string          `json:"lists,omitempty"`

	// AssociatedListIDs are lists the goal is cross-linked to.
	AssociatedListIDs []string `json:"associatedListIds,omitempty"`
	Updated           string   `json:"updated,omitempty"`
}

func (s *Service) scheme() string {
	if s.Scheme == "" {
		return store.DefaultScheme
	}
	return s.Scheme
}

// Lists returns every list in tree order.
func (s *Service) Lists(ctx context.Context) ([]ListDTO, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	v, err := s.App.View(ctx)
	if err != nil {
		return nil, err
	}
	nodes := v.Tree()
	out := make([]ListDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, s.listDTO(v, n.List, n.Depth))
	}
	return out, nil
}

func (s *Service) listDTO(v *state.View, l *goal.List, depth int) ListDTO {
	items := v.Items(l.ID, state.Filter{})
	open := 0
	for _, it := range items {
		if !it.Goal.Completed {
			open++
		}
	}
	return ListDTO{
		ID:          l.ID,
		Name:        l.Name,
		Path:        strings.Join(v.Path(l.ID), "/"),
		Description: l.Description,
		ParentID:    l.ParentID,
		Depth:       depth,
		GoalCount:   len(items),
		OpenCount:   open,
		Link:        link.Format(s.scheme(), l.ID),
	}
}

func stamp(ts ...goal.Timestamp) string {
	for _, t := range ts {
		if !t.IsZero() {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

func goalDTO(v *state.View, it state.Item, position int) GoalDTO {
	dto := GoalDTO{
		ID:         it.Goal.ID,
		InstanceID: it.Instance.ID,
		Position:   position,
		Text:       it.Goal.Text,
		Display:    it.Parsed.MainText,
		Completed:  it.Goal.Completed,
		Tags:       it.Parsed.Tags,
		Updated:    stamp(it.Goal.UpdatedAt, it.Goal.CreatedAt),

		AssociatedListIDs: slices.Clone(it.Goal.AssociatedListIDs),
	}
	icons := it.Parsed.CustomIcon
	for _, i := range it.Parsed.Icons {
		icons += i
	}
	dto.Icons = icons
	if len(it.Parsed.Fields) > 0 {
		dto.Fields = make(map[string]string, len(it.Parsed.Fields))
		for _, f := range it.Parsed.Fields {
			if _, seen := dto.Fields[f.Name]; !seen {
				dto.Fields[f.Name] = f.Value
			}
		}
	}
	if r := it.Parsed.Rating; r != nil {
		dto.Rating = r.Label
		dto.RatingSource = string(r.Source)
	}
	for _, id := range v.PlacementsOf(it.Goal.ID) {
		dto.Lists = append(dto.Lists, strings.Join(v.Path(id), "/"))
	}
	return dto
}

// ShowOptions selects the goals of one list.
type ShowOptions struct {
	List   string
	Filter state.Filter
}

// Show returns a list and its goals in order. Positions count every goal, so
// they stay valid for later calls even when the filter hides some.
func (s *Service) Show(ctx context.Context, opts ShowOptions) (ListDTO, []GoalDTO, error) {
	if s.App == nil {
		return ListDTO{}, nil, errNoApp
	}
	l, err := s.App.ResolveList(ctx, opts.List)
	if err != nil {
		return ListDTO{}, nil, err
	}
	v, err := s.App.View(ctx)
	if err != nil {
		return ListDTO{}, nil, err
	}
	visible := make(map[string]bool)
	for _, it := range v.Items(l.ID, opts.Filter) {
		visible[it.Instance.ID] = true
	}
	var goals []GoalDTO
	for i, it := range v.Items(l.ID, state.Filter{}) {
		if visible[it.Instance.ID] {
			goals = append(goals, goalDTO(v, it, i+1))
		}
	}
	return s.listDTO(v, l, len(v.Ancestors(l.ID))), goals, nil
}

// Search finds goals in every list whose text contains query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]GoalDTO, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("mcp: query is required")
	}
	v, err := s.App.View(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []GoalDTO
	for _, n := range v.Tree() {
		for i, it := range v.Items(n.List.ID, state.Filter{}) {
			if seen[it.Goal.ID] || !strings.Contains(strings.ToLower(it.Goal.Text), strings.ToLower(query)) {
				continue
			}
			seen[it.Goal.ID] = true
			out = append(out, goalDTO(v, it, i+1))
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// AddList creates a list under parent, or at the top level.
func (s *Service) AddList(ctx context.Context, name, description, parent string) (ListDTO, error) {
	if s.App == nil {
		return ListDTO{}, errNoApp
	}
	var parentID string
	if parent != "" {
		p, err := s.App.ResolveList(ctx, parent)
		if err != nil {
			return ListDTO{}, err
		}
		parentID = p.ID
	}
	res, err := s.App.Dispatch(ctx, state.AddList{Name: name, Description: description, ParentID: parentID})
	if err != nil {
		return ListDTO{}, err
	}
	v, err := s.App.View(ctx)
	if err != nil {
		return ListDTO{}, err
	}
	l, _ := v.List(res.ListID)
	return s.listDTO(v, l, len(v.Ancestors(l.ID))), nil
}

// AddGoal places a new goal at the top of a list.
func (s *Service) AddGoal(ctx context.Context, list, text string) (GoalDTO, error) {
	if s.App == nil {
		return GoalDTO{}, errNoApp
	}
	l, err := s.App.ResolveList(ctx, list)
	if err != nil {
		return GoalDTO{}, err
	}
	res, err := s.App.Dispatch(ctx, state.AddGoal{ListID: l.ID, Text: text})
	if err != nil {
		return GoalDTO{}, err
	}
	return s.item(ctx, l.ID, res.InstanceID)
}

// Toggle flips a goal between open and completed.
func (s *Service) Toggle(ctx context.Context, list, ref string) (GoalDTO, error) {
	return s.change(ctx, list, ref, func(it state.Item) state.Action {
		return state.ToggleGoal{GoalID: it.Goal.ID}
	})
}

// Edit replaces a goal's text.
func (s *Service) Edit(ctx context.Context, list, ref, text string) (GoalDTO, error) {
	return s.change(ctx, list, ref, func(it state.Item) state.Action {
		return state.EditGoalText{GoalID: it.Goal.ID, Text: text}
	})
}

func (s *Service) change(ctx context.Context, list, ref string, action func(state.Item) state.Action) (GoalDTO, error) {
	if s.App == nil {
		return GoalDTO{}, errNoApp
	}
	l, it, err := s.App.ResolveItem(ctx, list, ref)
	if err != nil {
		return GoalDTO{}, err
	}
	if _, err := s.App.Dispatch(ctx, action(it)); err != nil {
		return GoalDTO{}, err
	}
	return s.item(ctx, l.ID, it.Instance.ID)
}

// Move relocates a goal to dest at a 1-based position; zero appends.
func (s *Service) Move(ctx context.Context, list, ref, dest string, position int) (GoalDTO, error) {
	if s.App == nil {
		return GoalDTO{}, errNoApp
	}
	l, it, err := s.App.ResolveItem(ctx, list, ref)
	if err != nil {
		return GoalDTO{}, err
	}
	to := l
	if dest != "" {
		if to, err = s.App.ResolveList(ctx, dest); err != nil {
			return GoalDTO{}, err
		}
	}
	res, err := s.App.Dispatch(ctx, state.MoveInstance{
		InstanceID:   it.Instance.ID,
		SourceListID: l.ID,
		DestListID:   to.ID,
		DestIndex:    position - 1,
	})
	if err != nil {
		return GoalDTO{}, err
	}
	return s.item(ctx, to.ID, res.InstanceID)
}

// Reference places a goal in dest too; asCopy creates an independent goal.
func (s *Service) Reference(ctx context.Context, list, ref, dest string, asCopy bool) (GoalDTO, error) {
	if s.App == nil {
		return GoalDTO{}, errNoApp
	}
	_, it, err := s.App.ResolveItem(ctx, list, ref)
	if err != nil {
		return GoalDTO{}, err
	}
	to, err := s.App.ResolveList(ctx, dest)
	if err != nil {
		return GoalDTO{}, err
	}
	var a state.Action = state.ReferenceGoal{DestListID: to.ID, GoalID: it.Goal.ID}
	if asCopy {
		a = state.CopyGoal{GoalID: it.Goal.ID, DestListID: to.ID}
	}
	res, err := s.App.Dispatch(ctx, a)
	if err != nil {
		return GoalDTO{}, err
	}
	return s.item(ctx, to.ID, res.InstanceID)
}

// Remove takes a goal out of one list.
func (s *Service) Remove(ctx context.Context, list, ref string) error {
	if s.App == nil {
		return errNoApp
	}
	l, it, err := s.App.ResolveItem(ctx, list, ref)
	if err != nil {
		return err
	}
	_, err = s.App.Dispatch(ctx, state.RemoveInstance{ListID: l.ID, InstanceID: it.Instance.ID})
	return err
}

// Sort orders a list by rating and returns the new order.
func (s *Service) Sort(ctx context.Context, list string) ([]GoalDTO, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	l, err := s.App.ResolveList(ctx, list)
	if err != nil {
		return nil, err
	}
	if _, err := s.App.Dispatch(ctx, state.SortByRating{ListID: l.ID}); err != nil {
		return nil, err
	}
	_, goals, err := s.Show(ctx, ShowOptions{List: l.ID})
	return goals, err
}

// Import appends checklist lines to a list.
func (s *Service) Import(ctx context.Context, list, text string) (int, error) {
	if s.App == nil {
		return 0, errNoApp
	}
	res, err := s.App.Import(ctx, list, strings.NewReader(text), app.FormatMarkdown)
	if err != nil {
		return 0, err
	}
	return len(res.GoalIDs), nil
}

// Export renders a list as a Markdown checklist.
func (s *Service) Export(ctx context.Context, list string, f state.Filter) (string, error) {
	if s.App == nil {
		return "", errNoApp
	}
	l, err := s.App.ResolveList(ctx, list)
	if err != nil {
		return "", err
	}
	v, err := s.App.View(ctx)
	if err != nil {
		return "", err
	}
	return transfer.Markdown(l.Name, v.Items(l.ID, f)), nil
}

func (s *Service) item(ctx context.Context, listID, instanceID string) (GoalDTO, error) {
	v, err := s.App.View(ctx)
	if err != nil {
		return GoalDTO{}, err
	}
	for i, it := range v.Items(listID, state.Filter{}) {
		if it.Instance.ID == instanceID {
			return goalDTO(v, it, i+1), nil
		}
	}
	return GoalDTO{}, app.ErrGoalNotFound
}
