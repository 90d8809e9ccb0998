package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/slashkit/internal/bookmark"
	"github.com/gorewood/slashkit/internal/learn"
	"github.com/gorewood/slashkit/internal/repoinit"
)

// --- plan_repository ---

// PlanInput describes the repository to plan. Switches default to the
// github-init defaults.
type PlanInput struct {
	Name               string   `json:"name"                           jsonschema:"repository name"`
	Description        string   `json:"description,omitempty"          jsonschema:"repository description"`
	Public             bool     `json:"public,omitempty"               jsonschema:"create a public repository (default private)"`
	License            string   `json:"license,omitempty"              jsonschema:"MIT, Apache-2.0 or GPL-3.0"`
	Gitignore          string   `json:"gitignore,omitempty"            jsonschema:"python, node, go or general"`
	Branch             string   `json:"branch,omitempty"               jsonschema:"default branch (default main)"`
	Topics             []string `json:"topics,omitempty"               jsonschema:"repository topics"`
	CreateWebsite      bool     `json:"create_website,omitempty"       jsonschema:"scaffold a Docusaurus documentation site"`
	ProjectTemplate    string   `json:"project_template,omitempty"     jsonschema:"basic, development or release"`
	NoReadme           bool     `json:"no_readme,omitempty"            jsonschema:"skip README.md"`
	NoDependabot       bool     `json:"no_dependabot,omitempty"        jsonschema:"skip Dependabot configuration"`
	NoProject          bool     `json:"no_project,omitempty"           jsonschema:"skip the GitHub project board"`
	NoAutomation       bool     `json:"no_automation,omitempty"        jsonschema:"skip auto-version, auto-merge and release workflows"`
	EnableClaudeReview bool     `json:"enable_claude_review,omitempty" jsonschema:"add Claude review workflows"`
	NoBranchProtection bool     `json:"no_branch_protection,omitempty" jsonschema:"skip branch protection"`
}

// Request converts the input to a dry-run request.
func (in PlanInput) Request() repoinit.Request {
	req := repoinit.NewRequest(in.Name)
	req.Description = in.Description
	if in.Public {
		req.Visibility = repoinit.Public
	}
	req.License = in.License
	req.Gitignore = in.Gitignore
	if in.Branch != "" {
		req.DefaultBranch = in.Branch
	}
	req.Topics = in.Topics
	req.CreateWebsite = in.CreateWebsite
	if in.ProjectTemplate != "" {
		req.ProjectTemplate = repoinit.ProjectTemplate(in.ProjectTemplate)
	}
	req.README = !in.NoReadme
	req.EnableDependabot = !in.NoDependabot
	req.CreateProject = !in.NoProject
	req.AutoVersion = !in.NoAutomation
	req.AutoMerge = !in.NoAutomation
	req.AutoRelease = !in.NoAutomation
	req.ClaudeReview = in.EnableClaudeReview
	req.BranchProtection = !in.NoBranchProtection
	req.DryRun = true
	return req
}

// PlanOutput is the projected run.
type PlanOutput struct {
	Plan repoinit.Plan `json:"plan" jsonschema:"files, commands and settings the run would use"`
}

func handlePlanRepository(env Env) mcp.ToolHandlerFor[PlanInput, PlanOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, PlanOutput, error) {
		outcome, err := repoinit.New(env.Runner).Run(ctx, input.Request())
		if err != nil {
			return nil, PlanOutput{}, err
		}
		return nil, PlanOutput{Plan: outcome.Plan}, nil
	}
}

// --- check_prerequisites ---

// PrerequisitesInput selects optional checks.
type PrerequisitesInput struct {
	Website bool `json:"website,omitempty" jsonschema:"also check Node.js for the documentation site"`
}

// PrerequisitesOutput reports every check.
type PrerequisitesOutput struct {
	OK      bool                        `json:"ok"      jsonschema:"true when every check passed"`
	Results []repoinit.ValidationResult `json:"results" jsonschema:"individual check results"`
}

func handleCheckPrerequisites(env Env) mcp.ToolHandlerFor[PrerequisitesInput, PrerequisitesOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PrerequisitesInput) (*mcp.CallToolResult, PrerequisitesOutput, error) {
		results := repoinit.NewValidator(env.Runner).CheckAll(ctx, input.Website)
		out := PrerequisitesOutput{OK: true, Results: results}
		for _, r := range results {
			if !r.OK {
				out.OK = false
			}
		}
		return nil, out, nil
	}
}

// --- list_bookmarks ---

// ListBookmarksInput takes no parameters.
type ListBookmarksInput struct{}

// ListBookmarksOutput lists bookmarks in file order.
type ListBookmarksOutput struct {
	Count     int                 `json:"count"               jsonschema:"number of bookmarks"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks,omitempty" jsonschema:"bookmarks grouped by category"`
}

func handleListBookmarks(env Env) mcp.ToolHandlerFor[ListBookmarksInput, ListBookmarksOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListBookmarksInput) (*mcp.CallToolResult, ListBookmarksOutput, error) {
		list, err := env.Bookmarks.List()
		if err != nil {
			return nil, ListBookmarksOutput{}, err
		}
		return nil, ListBookmarksOutput{Count: len(list), Bookmarks: list}, nil
	}
}

// --- add_bookmark ---

// AddBookmarkInput is the bookmark text.
type AddBookmarkInput struct {
	Text string `json:"text" jsonschema:"URL, note or command to bookmark"`
}

// AddBookmarkOutput is the stored bookmark.
type AddBookmarkOutput struct {
	Bookmark bookmark.Bookmark `json:"bookmark" jsonschema:"the stored bookmark with its number and category"`
	Path     string            `json:"path"     jsonschema:"bookmarks file path"`
}

func handleAddBookmark(env Env) mcp.ToolHandlerFor[AddBookmarkInput, AddBookmarkOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input AddBookmarkInput) (*mcp.CallToolResult, AddBookmarkOutput, error) {
		added, err := env.Bookmarks.Add(input.Text)
		if err != nil {
			return nil, AddBookmarkOutput{}, fmt.Errorf("adding bookmark: %w", err)
		}
		return nil, AddBookmarkOutput{Bookmark: added, Path: env.Bookmarks.Path()}, nil
	}
}

// --- list_learning_sections ---

// LearningSectionsInput optionally overrides the notes file and provides a
// learning to suggest sections for.
type LearningSectionsInput struct {
	Path     string `json:"path,omitempty"     jsonschema:"notes file (default ~/.claude/CLAUDE.md)"`
	Learning string `json:"learning,omitempty" jsonschema:"learning text used to suggest target sections"`
}

// LearningSectionsOutput lists headings and suggestions.
type LearningSectionsOutput struct {
	Path        string          `json:"path"                  jsonschema:"notes file that was read"`
	Sections    []learn.Section `json:"sections,omitempty"    jsonschema:"headings in file order"`
	Suggestions []string        `json:"suggestions,omitempty" jsonschema:"section titles that fit the learning"`
}

func handleListLearningSections(env Env) mcp.ToolHandlerFor[LearningSectionsInput, LearningSectionsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LearningSectionsInput) (*mcp.CallToolResult, LearningSectionsOutput, error) {
		path := input.Path
		if path == "" {
			path = env.NotesPath
		}
		nb, err := learn.Open(path)
		if err != nil {
			if errors.Is(err, learn.ErrNotFound) {
				return nil, LearningSectionsOutput{}, fmt.Errorf("%w (create it first or pass path)", err)
			}
			return nil, LearningSectionsOutput{}, err
		}
		sections, err := nb.Sections()
		if err != nil {
			return nil, LearningSectionsOutput{}, err
		}
		out := LearningSectionsOutput{Path: nb.Path(), Sections: sections}
		if input.Learning != "" {
			out.Suggestions = learn.Suggest(input.Learning, sections)
		}
		return nil, out, nil
	}
}
