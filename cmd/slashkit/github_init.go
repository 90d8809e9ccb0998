package main

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/config"
	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/prompt"
	"github.com/gorewood/slashkit/internal/repoinit"
	"github.com/gorewood/slashkit/internal/templates"
)

// newRunner returns the runner used for git, gh and node. Tests replace it.
var newRunner = func() gateway.Runner { return gateway.NewExec() }

// githubInitFlags holds the command-line flags for the github-init command.
type githubInitFlags struct {
	description        string
	public             bool
	private            bool
	license            string
	gitignore          string
	noReadme           bool
	branch             string
	topics             string
	createWebsite      bool
	noDependabot       bool
	noProject          bool
	projectTemplate    string
	noAutoVersion      bool
	noAutoMerge        bool
	noAutoRelease      bool
	enableClaudeReview bool
	noBranchProtection bool
	dryRun             bool
	configPath         string
}

// newGithubInitCmd creates the github-init command.
func newGithubInitCmd() *cobra.Command {
	flags := &githubInitFlags{}

	cmd := &cobra.Command{
		Use:   "github-init [name]",
		Short: "Create a local repository and its GitHub remote in one step",
		Long: `Create a new directory with a ready-to-push repository and its GitHub remote.

Steps:
  1. Check git, gh (authenticated) and, for --create-website, Node.js 18+
  2. Create ./<name>, run git init and write README, .gitignore, LICENSE,
     CI workflow, Dependabot config and optional Docusaurus site
  3. Create the GitHub repository and add it as origin
  4. Set topics, enable auto-merge, create a project board and add the
     automation workflows (failures here are warnings)
  5. Commit, push, and protect the default branch

If step 2, 3 or the commit fails, everything created so far (including the
remote repository) is removed again.

Defaults come from <config dir>/config.yaml; flags override them.
Run without a name in a terminal to be asked for the settings.

Examples:
  slashkit github-init demo
  slashkit github-init demo -l MIT -g python --topics cli,tools
  slashkit github-init docs-site --create-website --public
  slashkit github-init demo --dry-run --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGithubInit(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.description, "description", "d", "", "Repository description")
	f.BoolVar(&flags.public, "public", false, "Create a public repository")
	f.BoolVar(&flags.private, "private", false, "Create a private repository (default)")
	f.StringVarP(&flags.license, "license", "l", "", "License: MIT, Apache-2.0, GPL-3.0")
	f.StringVarP(&flags.gitignore, "gitignore", "g", "", "Ignore rules: python, node, go, general")
	f.BoolVar(&flags.noReadme, "no-readme", false, "Skip README.md")
	f.StringVar(&flags.branch, "branch", "", "Default branch (default main)")
	f.StringVar(&flags.topics, "topics", "", "Comma-separated repository topics")
	f.BoolVar(&flags.createWebsite, "create-website", false, "Scaffold a Docusaurus site with Pages deployment")
	f.BoolVar(&flags.noDependabot, "no-dependabot", false, "Skip Dependabot configuration")
	f.BoolVar(&flags.noProject, "no-project", false, "Skip the GitHub project board")
	f.StringVar(&flags.projectTemplate, "project-template", "", "Project board: basic, development, release")
	f.BoolVar(&flags.noAutoVersion, "no-auto-version", false, "Skip the auto-version workflow")
	f.BoolVar(&flags.noAutoMerge, "no-auto-merge", false, "Skip auto-merge setup")
	f.BoolVar(&flags.noAutoRelease, "no-auto-release", false, "Skip the release workflow")
	f.BoolVar(&flags.enableClaudeReview, "enable-claude-review", false, "Add Claude review workflows")
	f.BoolVar(&flags.noBranchProtection, "no-branch-protection", false, "Skip default branch protection")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Show what would be done without doing it")
	f.StringVar(&flags.configPath, "config", "", "Config file (default <config dir>/config.yaml)")
	cmd.MarkFlagsMutuallyExclusive("public", "private")

	return cmd
}

// runGithubInit executes the github-init command.
func runGithubInit(cmd *cobra.Command, args []string, flags *githubInitFlags) error {
	printer := newPrinter(cmd)

	configPath := flags.configPath
	if configPath == "" {
		configPath = config.Path()
	}
	defaults, configWarnings := config.Load(configPath)
	if !printer.IsJSON() {
		for _, w := range configWarnings {
			printer.Warn("%s", w)
		}
	}

	req := repoinit.NewRequest("")
	if len(args) == 1 {
		req.Name = args[0]
	}
	applyDefaults(&req, defaults)

	if req.Name == "" {
		if printer.IsJSON() || !isTerminal(cmd.InOrStdin()) {
			err := output.NewUserError("repository name required").
				WithHint("pass it as an argument: slashkit github-init <name>")
			if printer.IsJSON() {
				_ = outputInitFailureJSON(printer, err, nil, configWarnings)
			} else {
				printer.Error(err)
			}
			return err
		}
		answers, err := prompt.Ask(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), initQuestions(req))
		if err != nil {
			if errors.Is(err, prompt.ErrCanceled) {
				exitErr := output.NewUserError("canceled")
				printer.Error(exitErr)
				return exitErr
			}
			exitErr := output.NewSystemErrorWithCause(err.Error(), err)
			printer.Error(exitErr)
			return exitErr
		}
		applyAnswers(&req, answers)
	}

	applyFlags(cmd, &req, flags)

	in := repoinit.New(newRunner(),
		repoinit.WithTemplates(templates.New(templateDir())),
		repoinit.WithReporter(newInitReporter(printer)),
	)
	outcome, err := in.Run(cmd.Context(), req)
	if err != nil {
		exitErr := repoinit.ToExitError(err)
		if printer.IsJSON() {
			_ = outputInitFailureJSON(printer, exitErr, outcome, configWarnings)
		} else {
			printer.Error(exitErr)
			outputRollbackSummary(printer, outcome)
		}
		return exitErr
	}

	if printer.IsJSON() {
		return outputInitJSON(printer, outcome, configWarnings)
	}
	if outcome.DryRun {
		outputPlanHuman(printer, outcome.Plan)
		return nil
	}
	outputInitHuman(printer, outcome)
	return nil
}

// templateDir returns the user's template override directory.
func templateDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	return output.IsTTY(r)
}

// applyDefaults overlays config file values onto the built-in defaults.
func applyDefaults(req *repoinit.Request, d config.Defaults) {
	setString(&req.Description, d.Description)
	setString(&req.License, d.License)
	setString(&req.Gitignore, d.Gitignore)
	setString(&req.DefaultBranch, d.DefaultBranch)
	if d.ProjectTemplate != nil {
		req.ProjectTemplate = repoinit.ProjectTemplate(*d.ProjectTemplate)
	}
	if d.Private != nil {
		req.Visibility = repoinit.Public
		if *d.Private {
			req.Visibility = repoinit.Private
		}
	}
	if d.Topics != nil {
		req.Topics = d.Topics
	}
	setBool(&req.README, d.README)
	setBool(&req.CreateWebsite, d.CreateWebsite)
	setBool(&req.EnableDependabot, d.EnableDependabot)
	setBool(&req.CreateProject, d.CreateProject)
	setBool(&req.AutoVersion, d.EnableAutoVersion)
	setBool(&req.AutoMerge, d.EnableAutoMerge)
	setBool(&req.AutoRelease, d.EnableAutoRelease)
	setBool(&req.ClaudeReview, d.EnableClaudeReview)
	setBool(&req.BranchProtection, d.EnableBranchProtection)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// applyFlags overlays only the flags the user actually passed, so config
// values survive unless explicitly overridden.
func applyFlags(cmd *cobra.Command, req *repoinit.Request, flags *githubInitFlags) {
	changed := cmd.Flags().Changed

	if changed("description") {
		req.Description = flags.description
	}
	// --public=false means private and --private=false means public.
	if changed("public") {
		req.Visibility = repoinit.Private
		if flags.public {
			req.Visibility = repoinit.Public
		}
	}
	if changed("private") {
		req.Visibility = repoinit.Public
		if flags.private {
			req.Visibility = repoinit.Private
		}
	}
	if changed("license") {
		req.License = flags.license
	}
	if changed("gitignore") {
		req.Gitignore = flags.gitignore
	}
	if changed("branch") {
		req.DefaultBranch = flags.branch
	}
	if changed("topics") {
		req.Topics = config.SplitList(flags.topics)
	}
	if changed("project-template") {
		req.ProjectTemplate = repoinit.ProjectTemplate(flags.projectTemplate)
	}

	negations := []struct {
		name string
		set  bool
		dst  *bool
	}{
		{"no-readme", flags.noReadme, &req.README},
		{"no-dependabot", flags.noDependabot, &req.EnableDependabot},
		{"no-project", flags.noProject, &req.CreateProject},
		{"no-auto-version", flags.noAutoVersion, &req.AutoVersion},
		{"no-auto-merge", flags.noAutoMerge, &req.AutoMerge},
		{"no-auto-release", flags.noAutoRelease, &req.AutoRelease},
		{"no-branch-protection", flags.noBranchProtection, &req.BranchProtection},
	}
	for _, n := range negations {
		if changed(n.name) {
			*n.dst = !n.set
		}
	}
	if changed("create-website") {
		req.CreateWebsite = flags.createWebsite
	}
	if changed("enable-claude-review") {
		req.ClaudeReview = flags.enableClaudeReview
	}
	if changed("dry-run") {
		req.DryRun = flags.dryRun
	}
}

// initQuestions builds the interactive form, pre-filled from req.
func initQuestions(req repoinit.Request) []prompt.Question {
	yesNo := func(b bool) string {
		if b {
			return "y"
		}
		return "n"
	}
	none := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	return []prompt.Question{
		{Key: "name", Label: "Repository name", Validate: func(s string) error {
			probe := repoinit.NewRequest(s)
			return probe.Validate()
		}},
		{Key: "description", Label: "Description", Default: req.Description},
		{Key: "private", Label: "Private repository", Kind: prompt.Confirm, Default: yesNo(req.Private())},
		{Key: "license", Label: "License", Kind: prompt.Choice, Default: none(req.License),
			Choices: append([]string{"none"}, templates.Licenses...)},
		{Key: "gitignore", Label: "Ignore rules", Kind: prompt.Choice, Default: none(req.Gitignore),
			Choices: append([]string{"none"}, templates.Gitignores...)},
		{Key: "topics", Label: "Topics (comma-separated)"},
		{Key: "website", Label: "Create documentation website", Kind: prompt.Confirm, Default: yesNo(req.CreateWebsite)},
	}
}

// applyAnswers copies form answers into req.
func applyAnswers(req *repoinit.Request, a prompt.Answers) {
	req.Name = a["name"]
	req.Description = a["description"]
	req.Visibility = repoinit.Public
	if a.Bool("private") {
		req.Visibility = repoinit.Private
	}
	req.License = a["license"]
	if req.License == "none" {
		req.License = ""
	}
	req.Gitignore = a["gitignore"]
	if req.Gitignore == "none" {
		req.Gitignore = ""
	}
	if topics := config.SplitList(a["topics"]); len(topics) > 0 {
		req.Topics = topics
	}
	req.CreateWebsite = a.Bool("website")
}
