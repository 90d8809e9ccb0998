package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/learn"
	slashmcp "github.com/gorewood/slashkit/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run slashkit as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "slashkit": {
        "command": "slashkit",
        "args": ["serve"]
      }
    }
  }

Available tools: plan_repository, check_prerequisites, list_bookmarks,
add_bookmark, list_learning_sections`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := slashmcp.NewServer(buildVersion(), slashmcp.Env{
				Runner:    newRunner(),
				Bookmarks: projectBookmarks(cmd),
				NotesPath: learn.DefaultPath(),
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
