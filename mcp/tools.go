package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nohype/nohype/internal/app"
)

func registerTools(s *server.MCPServer, a *app.App) {
	analyzeTool := mcp.NewTool("analyze_product",
		mcp.WithDescription("Fetch a product page and analyze it for marketing hype, inflated discounts and suspicious reviews"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Product page URL (amazon, allegro, aliexpress)"),
		),
	)
	s.AddTool(analyzeTool, handleAnalyzeProduct(a))

	historyTool := mcp.NewTool("get_history",
		mcp.WithDescription("List past analyses, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return (default: 20)"),
		),
	)
	s.AddTool(historyTool, handleGetHistory(a))

	listAlertsTool := mcp.NewTool("list_alerts",
		mcp.WithDescription("List price alerts, active and fired"),
	)
	s.AddTool(listAlertsTool, handleListAlerts(a))

	createAlertTool := mcp.NewTool("create_alert",
		mcp.WithDescription("Create a price alert for a product; notifies when the price drops to the target"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Product page URL"),
		),
		mcp.WithNumber("target",
			mcp.Required(),
			mcp.Description("Target price; must be below the current price"),
		),
	)
	s.AddTool(createAlertTool, handleCreateAlert(a))
}

func handleAnalyzeProduct(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url := request.GetString("url", "")
		if url == "" {
			return mcp.NewToolResultError("url is required"), nil
		}

		product, err := a.Fetcher.Product(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("fetch error: %v", err)), nil
		}

		result, _, err := a.Service.Analyze(ctx, *product)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analysis error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(struct {
			Product any `json:"product"`
			Result  any `json:"result"`
		}{product, result}, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleGetHistory(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)

		items, err := a.History.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history error: %v", err)), nil
		}
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		data, _ := json.MarshalIndent(items, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleListAlerts(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		alerts, err := a.Alerts.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("alerts error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(alerts, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleCreateAlert(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url := request.GetString("url", "")
		if url == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		target := request.GetFloat("target", 0)

		product, err := a.Fetcher.Product(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("fetch error: %v", err)), nil
		}

		alert, err := a.Alerts.Create(ctx, *product, target)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("alert error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(alert, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}
