package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docchat/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes three tools:
  extract_document - page-labeled text of a local document
  ask_document     - a page-cited answer to a question about document text
  session_history  - the questions and answers recorded for a session

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead. Edits to the config file and prompt
templates are picked up while the server runs.

Examples:
  # Stdio mode (default)
  docchat mcp serve

  # HTTP mode on loopback (for MCP Inspector)
  docchat mcp serve --port 8080

  # HTTP mode on all interfaces
  docchat mcp serve --port 8080 --host 0.0.0.0

MCP client configuration:
  {
    "mcpServers": {
      "docchat": {
        "command": "/path/to/docchat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	ports := &mcp.Ports{
		Query:    queryService,
		Document: documentService,
		History:  historyService,
	}

	server, err := mcp.NewServer(ports, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if configWatcher != nil {
		if err := configWatcher.Start(cmd.Context()); err != nil {
			logger.Warn("config watcher disabled: %v", err)
		} else {
			defer configWatcher.Close() //nolint:errcheck
		}
	}

	if port > 0 {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
