package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerListsResource(srv, svc)
	registerListTemplate(srv, svc)
}

func registerListsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"goals://lists",
		"Lists",
		mcp.WithResourceDescription("Every goal list in tree order with counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		lists, err := svc.Lists(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"lists": lists,
			"count": len(lists),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerListTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"goals://lists/{id}",
		"List Goals",
		mcp.WithTemplateDescription("Goals placed in one list, in order."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("list id is required")
		}
		list, goals, err := svc.Show(ctx, ShowOptions{List: id})
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"list":  list,
			"count": len(goals),
			"goals": goals,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// argument reads a template variable, which arrives either as a string or as
// a single-element list.
func argument(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
