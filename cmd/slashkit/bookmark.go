package main

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/bookmark"
	"github.com/gorewood/slashkit/internal/git"
	"github.com/gorewood/slashkit/internal/output"
)

// newBookmarkCmd creates the bookmark command and its subcommands.
func newBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Keep project bookmarks in .claude/BOOKMARKS.md",
		Long: `Keep project bookmarks in .claude/BOOKMARKS.md at the repository root.

Bookmarks are sorted into URLs, Notes and Code Snippets automatically and
numbered across all categories. CLAUDE.md gets a pointer to the file so
agents pick it up. Avoid storing credentials; reference where they live.

Examples:
  slashkit bookmark add https://docs.example.com/api - API docs
  slashkit bookmark add "pytest tests/ -v --cov=src"
  slashkit bookmark list
  slashkit bookmark remove 3`,
	}
	cmd.AddCommand(newBookmarkAddCmd(), newBookmarkListCmd(), newBookmarkRemoveCmd())
	return cmd
}

func newBookmarkAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <text>",
		Aliases: []string{"a"},
		Short:   "Add a bookmark",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			store := projectBookmarks(cmd)
			added, err := store.Add(strings.Join(args, " "))
			if err != nil {
				exitErr := bookmarkExitError(err)
				printer.Error(exitErr)
				return exitErr
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"bookmark": added, "path": store.Path()})
			}
			printer.Step(output.StepOK, "Added bookmark #"+strconv.Itoa(added.Index)+" to "+string(added.Category), "")
			if added.Index == 1 {
				printer.Println("Tip: avoid storing credentials directly; note where they live instead.")
			}
			return nil
		},
	}
}

func newBookmarkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List bookmarks by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			list, err := projectBookmarks(cmd).List()
			if err != nil {
				exitErr := bookmarkExitError(err)
				printer.Error(exitErr)
				return exitErr
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"count": len(list), "bookmarks": list})
			}
			if len(list) == 0 {
				printer.Println("No bookmarks yet. Add one with: slashkit bookmark add <text>")
				return nil
			}
			printer.Print("Project bookmarks (%d total)\n", len(list))
			for _, category := range bookmark.Categories {
				var items []bookmark.Bookmark
				for _, bm := range list {
					if bm.Category == category {
						items = append(items, bm)
					}
				}
				printer.Section(string(category) + " (" + strconv.Itoa(len(items)) + ")")
				if len(items) == 0 {
					printer.Println("  (none)")
				}
				for _, bm := range items {
					printer.Print("  %d. %s\n", bm.Index, bm.Text)
				}
			}
			return nil
		},
	}
}

func newBookmarkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <number>",
		Aliases: []string{"rm", "r"},
		Short:   "Remove a bookmark and renumber the rest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			index, err := strconv.Atoi(args[0])
			if err != nil {
				exitErr := output.NewUserError("invalid index " + strconv.Quote(args[0])).
					WithHint("use the number shown by 'slashkit bookmark list'")
				printer.Error(exitErr)
				return exitErr
			}
			removed, remaining, err := projectBookmarks(cmd).Remove(index)
			if err != nil {
				exitErr := bookmarkExitError(err)
				printer.Error(exitErr)
				return exitErr
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"removed": removed, "remaining": remaining})
			}
			printer.Step(output.StepOK, "Removed bookmark #"+strconv.Itoa(index)+": "+strconv.Quote(removed.Text), "")
			printer.Print("%d bookmark(s) remaining\n", remaining)
			return nil
		},
	}
}

// projectBookmarks returns the store at the repository root, or the working
// directory outside a repository.
func projectBookmarks(cmd *cobra.Command) *bookmark.Store {
	root, err := git.New(newRunner()).RepoRoot(cmd.Context())
	if err != nil {
		root, _ = os.Getwd()
	}
	return bookmark.NewStore(root)
}

func bookmarkExitError(err error) *output.ExitError {
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		return output.NewUserErrorWithCause(err.Error(), err).
			WithHint("run 'slashkit bookmark list' to see all bookmarks")
	case errors.Is(err, bookmark.ErrInvalidIndex), errors.Is(err, bookmark.ErrEmptyText):
		return output.NewUserErrorWithCause(err.Error(), err)
	default:
		return output.NewSystemErrorWithCause(err.Error(), err)
	}
}
