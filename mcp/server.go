// Package mcp exposes the analyzer over the Model Context Protocol, on stdio
// for local agents and over HTTP for remote ones. The HTTP server also
// carries the plain JSON message endpoint at /v1/messages.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/nohype/nohype/internal/app"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(a *app.App) error {
	s := server.NewMCPServer(
		"nohype",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, a)

	return server.ServeStdio(s)
}
