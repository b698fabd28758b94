package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/goals/pkg/state"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListListsTool(srv, svc)
	registerShowListTool(srv, svc)
	registerAddListTool(srv, svc)
	registerAddGoalTool(srv, svc)
	registerToggleGoalTool(srv, svc)
	registerEditGoalTool(srv, svc)
	registerMoveGoalTool(srv, svc)
	registerReferenceGoalTool(srv, svc)
	registerRemoveGoalTool(srv, svc)
	registerSortListTool(srv, svc)
	registerImportGoalsTool(srv, svc)
	registerExportListTool(srv, svc)
	registerSearchGoalsTool(srv, svc)
}

func listParam() mcp.ToolOption {
	return mcp.WithString("list",
		mcp.Required(),
		mcp.Description("List id, or its path of names separated by \"/\"."),
	)
}

func goalParam() mcp.ToolOption {
	return mcp.WithString("goal",
		mcp.Required(),
		mcp.Description("1-based position in the list, instance id, goal id or goal id prefix."),
	)
}

func registerListListsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_lists",
		mcp.WithDescription("List every goal list in tree order with goal counts."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lists, err := svc.Lists(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"count": len(lists),
			"lists": lists,
		})
	})
}

func registerShowListTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"show_list",
		mcp.WithDescription("Show the goals of a list in order."),
		listParam(),
		mcp.WithBoolean("hide_completed",
			mcp.Description("Leave completed goals out."),
		),
		mcp.WithString("tag",
			mcp.Description("Only show goals carrying this #tag."),
		),
		mcp.WithString("text",
			mcp.Description("Only show goals whose text contains this string."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			List          string `json:"list"`
			HideCompleted bool   `json:"hide_completed"`
			Tag           string `json:"tag"`
			Text          string `json:"text"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		f := state.Filter{HideCompleted: args.HideCompleted, Tag: args.Tag, Query: args.Text}
		list, goals, err := svc.Show(ctx, ShowOptions{List: args.List, Filter: f})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"list":  list,
			"count": len(goals),
			"goals": goals,
		})
	})
}

func registerAddListTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_list",
		mcp.WithDescription("Create a list, optionally nested under a parent."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the new list."),
		),
		mcp.WithString("description",
			mcp.Description("Optional description."),
		),
		mcp.WithString("parent",
			mcp.Description("Parent list id or path. Empty creates a top-level list."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Parent      string `json:"parent"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.AddList(ctx, args.Name, args.Description, args.Parent)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_goal",
		mcp.WithDescription("Add a goal to the top of a list. Text may carry [name::value] fields, #tags and priority markers."),
		listParam(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Goal text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddGoal(ctx, list, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerToggleGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_goal",
		mcp.WithDescription("Flip a goal between open and completed. The change shows in every list holding it."),
		listParam(),
		goalParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ref, err := request.RequireString("goal")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Toggle(ctx, list, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerEditGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_goal",
		mcp.WithDescription("Replace the text of a goal."),
		listParam(),
		goalParam(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New goal text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			List string `json:"list"`
			Goal string `json:"goal"`
			Text string `json:"text"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.Edit(ctx, args.List, args.Goal, args.Text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_goal",
		mcp.WithDescription("Move a goal within its list or into another list."),
		listParam(),
		goalParam(),
		mcp.WithString("to",
			mcp.Description("Destination list id or path. Empty keeps the goal in its list."),
		),
		mcp.WithNumber("position",
			mcp.Description("1-based destination position. Omit to append."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			List     string `json:"list"`
			Goal     string `json:"goal"`
			To       string `json:"to"`
			Position int    `json:"position"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.Move(ctx, args.List, args.Goal, args.To, args.Position)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerReferenceGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"reference_goal",
		mcp.WithDescription("Place a goal in another list as well. Referenced goals stay shared; copies are independent."),
		listParam(),
		goalParam(),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Destination list id or path."),
		),
		mcp.WithBoolean("copy",
			mcp.Description("Create an independent copy instead of a shared reference."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			List string `json:"list"`
			Goal string `json:"goal"`
			To   string `json:"to"`
			Copy bool   `json:"copy"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.Reference(ctx, args.List, args.Goal, args.To, args.Copy)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRemoveGoalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"remove_goal",
		mcp.WithDescription("Remove a goal from one list. Placements in other lists are kept."),
		listParam(),
		goalParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ref, err := request.RequireString("goal")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Remove(ctx, list, ref); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("removed"), nil
	})
}

func registerSortListTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"sort_list",
		mcp.WithDescription("Sort a list by rating, highest first. Goals without a rating keep their order at the end."),
		listParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		goals, err := svc.Sort(ctx, list)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"count": len(goals),
			"goals": goals,
		})
	})
}

func registerImportGoalsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"import_goals",
		mcp.WithDescription("Append goals to a list, one per line. Bullets and [x] checkboxes are understood."),
		listParam(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Checklist text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		n, err := svc.Import(ctx, list, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"imported": n})
	})
}

func registerExportListTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_list",
		mcp.WithDescription("Render a list as a Markdown checklist."),
		listParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := request.RequireString("list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		md, err := svc.Export(ctx, list, state.Filter{})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(md), nil
	})
}

func registerSearchGoalsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_goals",
		mcp.WithDescription("Find goals in every list whose text contains the query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to look for."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of goals to return (default 20)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)
		goals, err := svc.Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query": query,
			"count": len(goals),
			"goals": goals,
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
