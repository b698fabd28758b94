package main

import (
	"context"
	"log"
	"strings"

	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/store"
	"tableflip.dev/goals/pkg/transfer"
)

// demo seeds the configured store with a small tree of lists.
var demo = []struct {
	path  []string
	goals string
}{
	{[]string{"Work"}, "- [ ] Quarterly plan [impact::8][costs::3] #urgent\n- [x] Expense report\n"},
	{[]string{"Work", "Projects"}, "- [ ] Launch beta [parent_value::2][impact::5][costs::2]\n- [ ] Write docs [costs::1]\n"},
	{[]string{"Home"}, "- [ ] Fix the gate [rating::4]\n- [ ] [icon::🌱] Plant tomatoes #idea\n"},
}

func main() {
	ctx := context.Background()
	p, err := store.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	svc := &app.Service{Persistence: p}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Fatal(err)
		}
	}()

	for _, d := range demo {
		listID, err := ensure(ctx, svc, d.path)
		if err != nil {
			log.Fatal(err)
		}
		items, err := transfer.Import(strings.NewReader(d.goals))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := svc.Dispatch(ctx, state.ImportGoals{ListID: listID, Items: items}); err != nil {
			log.Fatal(err)
		}
	}
}

func ensure(ctx context.Context, svc *app.Service, path []string) (string, error) {
	parentID := ""
	for i := range path {
		if l, err := svc.ResolveList(ctx, strings.Join(path[:i+1], "/")); err == nil {
			parentID = l.ID
			continue
		}
		res, err := svc.Dispatch(ctx, state.AddList{Name: path[i], ParentID: parentID})
		if err != nil {
			return "", err
		}
		parentID = res.ListID
	}
	return parentID, nil
}
