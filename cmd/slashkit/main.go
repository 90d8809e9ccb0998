// Package main provides the entry point for the slashkit CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/config"
	"github.com/gorewood/slashkit/internal/envfile"
	"github.com/gorewood/slashkit/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves --color against the command's output writer.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter returns the command's printer, with errors and warnings on stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the slashkit CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slashkit",
		Short: "Bootstrap GitHub repositories and keep project notes",
		Long: `slashkit - bootstrap a GitHub repository in one command.

github-init validates your tools, creates a local repository with README,
license, ignore rules and CI workflows, creates the GitHub remote, configures
topics, project board and automation, then commits and pushes. Anything
created is rolled back if a required step fails.

slashkit also keeps project bookmarks and folds session learnings into your
CLAUDE.md, and can serve all of this to agents over MCP.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'slashkit --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// GH_TOKEN and friends may live in the global env file instead of the
	// shell profile. Real environment variables win.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
			if _, err := output.ParseColorMode(flag.Value.String()); err != nil {
				exitErr := output.NewUserErrorWithCause(err.Error(), err)
				output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), false).WithStderr(cmd.ErrOrStderr()).Error(exitErr)
				return exitErr
			}
		}
		if dir := config.Dir(); dir != "" {
			_, _ = envfile.Load(filepath.Join(dir, "env"))
		}
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "notes", Title: "Notes Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newGithubInitCmd(), "core")

	addGroupedCommand(cmd, newLearnCmd(), "notes")
	addGroupedCommand(cmd, newBookmarkCmd(), "notes")

	addGroupedCommand(cmd, newServeCmd(), "agent")

	addGroupedCommand(cmd, newDoctorCmd(), "admin")
	addGroupedCommand(cmd, newTemplatesCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
