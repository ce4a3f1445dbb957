package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kotae/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the question and answer dataset.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start a streamable HTTP server instead.

Tools:
  search               - keyword search over questions and answers

Resources:
  kotae://status       - readiness and dataset details
  kotae://dataset      - every question with its ID and category
  kotae://records/{id} - one question and its answer

Examples:
  # Stdio mode
  kotae mcp serve --source faq.csv

  # HTTP mode (for MCP Inspector, remote access)
  kotae mcp serve --source faq.csv --port 8090

Client configuration:
  {
    "mcpServers": {
      "kotae": {
        "command": "/path/to/kotae",
        "args": ["mcp", "serve", "--source", "/path/to/faq.csv"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	rt, err := runtimeFor(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Search: rt.Search, Dataset: rt.Dataset})
	if err != nil {
		return err
	}
	rt.Start(cmd.Context())

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
