// Package mcp provides a Model Context Protocol server for slashkit.
// It exposes repository planning, prerequisite checks, bookmarks and notes
// sections as MCP tools that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/slashkit/internal/bookmark"
	"github.com/gorewood/slashkit/internal/gateway"
)

// Env is what the tools operate on.
type Env struct {
	// Runner executes git, gh and node for prerequisite checks.
	Runner gateway.Runner
	// Bookmarks is the current project's bookmark store.
	Bookmarks *bookmark.Store
	// NotesPath is the default notes file for list_learning_sections.
	NotesPath string
}

// NewServer creates an MCP server with all slashkit tools registered.
func NewServer(version string, env Env) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "slashkit",
		Version: version,
	}, nil)
	registerTools(server, env)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for tools that change nothing.
// openWorld marks tools that reach outside the local machine.
func readOnlyAnnotations(openWorld bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(openWorld),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, env Env) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_repository",
		Description: "Preview what github-init would do for a new repository: files to write, commands to run, and resolved settings. Nothing is created.",
		Annotations: readOnlyAnnotations(false),
	}, handlePlanRepository(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_prerequisites",
		Description: "Check that git, the GitHub CLI (authenticated) and optionally Node.js 18+ are available for repository bootstrapping.",
		Annotations: readOnlyAnnotations(true),
	}, handleCheckPrerequisites(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_bookmarks",
		Description: "List the project's bookmarks from .claude/BOOKMARKS.md, grouped as URLs, Notes and Code Snippets.",
		Annotations: readOnlyAnnotations(false),
	}, handleListBookmarks(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_bookmark",
		Description: "Add a project bookmark. The category is detected from the text and the bookmark gets the next number.",
		Annotations: writeAnnotations(),
	}, handleAddBookmark(env))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_learning_sections",
		Description: "List the headings of the notes file (default ~/.claude/CLAUDE.md) and suggest where a learning would fit.",
		Annotations: readOnlyAnnotations(false),
	}, handleListLearningSections(env))
}
