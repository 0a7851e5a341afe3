package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/nohype/nohype/mcp"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start the MCP HTTP server",
	Long:  "Start the MCP server over HTTP, with the message endpoint at /v1/messages for non-MCP clients.",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	serveHTTPCmd.Flags().Bool("watch", true, "Run the price alert watcher alongside the server")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	if runWatcher, _ := cmd.Flags().GetBool("watch"); runWatcher {
		go func() {
			if err := a.Watcher.Run(cmd.Context()); err != nil {
				a.Log.Error("watcher stopped", "error", err)
			}
		}()
	}

	return mcpserver.ServeHTTP(a, fmt.Sprintf(":%s", port), cfg.APIKey)
}
