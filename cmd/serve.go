package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/nohype/nohype/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting NoHype MCP server on stdio...")
	return mcpserver.Serve(a)
}
