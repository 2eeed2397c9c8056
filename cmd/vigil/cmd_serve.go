package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	mcpserver "vigil/internal/mcp"
	"vigil/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio for dashboard and issue tooling",
	Long: `Starts an MCP server over stdin/stdout exposing read-only query tools
(get_defects, get_defect_stats, get_runs, get_trends, get_failure_history).

The server monitors for parent process death and self-terminates when the
client disconnects, to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	t, err := openTracker()
	if err != nil {
		return err
	}
	defer t.Close()

	srv := mcpserver.NewServer(t)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting vigil MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
