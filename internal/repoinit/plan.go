package repoinit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorewood/slashkit/internal/github"
	"github.com/gorewood/slashkit/internal/templates"
)

// ArtifactKind groups planned files.
type ArtifactKind string

// Artifact kinds.
const (
	ArtifactREADME     ArtifactKind = "readme"
	ArtifactGitignore  ArtifactKind = "gitignore"
	ArtifactLicense    ArtifactKind = "license"
	ArtifactCI         ArtifactKind = "ci"
	ArtifactDocs       ArtifactKind = "docs"
	ArtifactDependabot ArtifactKind = "dependabot"
	ArtifactSite       ArtifactKind = "site"
	ArtifactAutomation ArtifactKind = "automation"
)

// PlannedArtifact is one file the run will write.
type PlannedArtifact struct {
	Path        string       `json:"path"`
	Kind        ArtifactKind `json:"kind"`
	Description string       `json:"description"`
	// Templates are rendered in order and joined with a blank line.
	Templates []string `json:"templates"`
	// BestEffort files are written after the remote exists; a failed write is a warning.
	BestEffort bool `json:"best_effort"`
}

// Action is one numbered step of the run.
type Action struct {
	Step        int    `json:"step"`
	Phase       Phase  `json:"phase"`
	Description string `json:"description"`
	Command     string `json:"command,omitempty"`
	BestEffort  bool   `json:"best_effort,omitempty"`
}

// Toggle is a resolved request setting shown in the plan summary.
type Toggle struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Plan is the full projection of a run. Dry runs print it; real runs execute it.
type Plan struct {
	Request       Request            `json:"request"`
	Artifacts     []PlannedArtifact  `json:"artifacts"`
	Actions       []Action           `json:"actions"`
	Toggles       []Toggle           `json:"toggles"`
	ProjectTitle  string             `json:"project_title,omitempty"`
	ProjectFields []github.Field     `json:"project_fields,omitempty"`
	Protection    *github.Protection `json:"protection,omitempty"`
}

// Automation workflow files, in the order they are written.
const (
	workflowAutoVersion  = "auto-version"
	workflowAutoMerge    = "automerge"
	workflowRelease      = "release"
	workflowClaudeReview = "claude-code-review"
	workflowClaude       = "claude"
)

func workflowPath(name string) string {
	return ".github/workflows/" + name + ".yml"
}

// Project computes the plan for req without touching the filesystem or
// running any command. req should already be normalized.
func Project(req Request) Plan {
	plan := Plan{
		Request:   req,
		Artifacts: planArtifacts(req),
		Toggles:   planToggles(req),
	}
	if req.CreateProject {
		plan.ProjectTitle = req.Name + " " + req.ProjectTemplate.Title()
		plan.ProjectFields = ProjectFields(req.ProjectTemplate)
	}
	if req.BranchProtection {
		protection := github.DefaultProtection()
		plan.Protection = &protection
	}
	plan.Actions = planActions(req, plan)
	return plan
}

func planArtifacts(req Request) []PlannedArtifact {
	var artifacts []PlannedArtifact
	add := func(path string, kind ArtifactKind, desc string, keys ...string) {
		artifacts = append(artifacts, PlannedArtifact{Path: path, Kind: kind, Description: desc, Templates: keys})
	}

	if req.README {
		add("README.md", ArtifactREADME, "project README", templates.KeyREADME)
	}
	switch {
	case req.Gitignore != "" && req.CreateWebsite:
		add(".gitignore", ArtifactGitignore, req.Gitignore+" ignore rules plus Docusaurus section",
			templates.GitignoreKey(req.Gitignore), templates.KeyDocusaurusIgnore)
	case req.Gitignore != "":
		add(".gitignore", ArtifactGitignore, req.Gitignore+" ignore rules", templates.GitignoreKey(req.Gitignore))
	case req.CreateWebsite:
		add(".gitignore", ArtifactGitignore, "node ignore rules plus Docusaurus section",
			templates.GitignoreKey("node"), templates.KeyDocusaurusIgnore)
	}
	if req.License != "" {
		add("LICENSE", ArtifactLicense, req.License+" license", templates.LicenseKey(req.License))
	}

	ciKey := templates.CIKey(req.Gitignore, req.CreateWebsite)
	add(workflowPath("ci"), ArtifactCI, strings.TrimPrefix(ciKey, "ci/")+" CI workflow", ciKey)

	if req.CreateWebsite {
		add(workflowPath("deploy-docs"), ArtifactDocs, "deploy docs to GitHub Pages", templates.WorkflowKey("deploy-docs"))
		add(workflowPath("pr-preview"), ArtifactDocs, "pull request docs preview", templates.WorkflowKey("pr-preview"))
	}
	if req.EnableDependabot {
		add(".github/dependabot.yml", ArtifactDependabot, "weekly dependency updates", templates.KeyDependabot)
	}
	if req.CreateWebsite {
		for _, path := range templates.SiteFiles {
			add(path, ArtifactSite, "Docusaurus site skeleton", templates.SiteKey(path))
		}
	}

	automation := []struct {
		enabled bool
		name    string
		desc    string
	}{
		{req.AutoVersion, workflowAutoVersion, "tag a version on every push"},
		{req.AutoMerge, workflowAutoMerge, "auto-merge Dependabot updates"},
		{req.AutoRelease, workflowRelease, "publish releases for version tags"},
		{req.ClaudeReview, workflowClaudeReview, "Claude pull request review"},
		{req.ClaudeReview, workflowClaude, "Claude @mentions"},
	}
	for _, wf := range automation {
		if !wf.enabled {
			continue
		}
		artifacts = append(artifacts, PlannedArtifact{
			Path:        workflowPath(wf.name),
			Kind:        ArtifactAutomation,
			Description: wf.desc,
			Templates:   []string{templates.WorkflowKey(wf.name)},
			BestEffort:  true,
		})
	}
	return artifacts
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func planToggles(req Request) []Toggle {
	topics := strings.Join(req.Topics, ", ")
	project := "off"
	if req.CreateProject {
		project = string(req.ProjectTemplate)
	}
	return []Toggle{
		{"visibility", string(req.Visibility)},
		{"description", orNone(req.Description)},
		{"default branch", req.DefaultBranch},
		{"readme", onOff(req.README)},
		{"gitignore", orNone(req.Gitignore)},
		{"license", orNone(req.License)},
		{"topics", orNone(topics)},
		{"website", onOff(req.CreateWebsite)},
		{"dependabot", onOff(req.EnableDependabot)},
		{"project board", project},
		{"auto version", onOff(req.AutoVersion)},
		{"auto merge", onOff(req.AutoMerge)},
		{"auto release", onOff(req.AutoRelease)},
		{"claude review", onOff(req.ClaudeReview)},
		{"branch protection", onOff(req.BranchProtection)},
	}
}

func planActions(req Request, plan Plan) []Action {
	var actions []Action
	add := func(phase Phase, bestEffort bool, command, format string, args ...any) {
		actions = append(actions, Action{
			Step:        len(actions) + 1,
			Phase:       phase,
			Description: fmt.Sprintf(format, args...),
			Command:     command,
			BestEffort:  bestEffort,
		})
	}

	tools := "git, gh, gh auth, GitHub API access"
	if req.CreateWebsite {
		tools += ", node >= " + strconv.Itoa(minNodeMajor)
	}
	add(PhaseValidating, false, "", "Check prerequisites (%s)", tools)

	core, automation := splitArtifacts(plan.Artifacts)
	add(PhaseBuilding, false, "", "Create directory %s", req.Name)
	add(PhaseBuilding, false, "git init && git symbolic-ref HEAD refs/heads/"+req.DefaultBranch,
		"Initialize git repository on branch %s", req.DefaultBranch)
	add(PhaseBuilding, false, "", "Write %d files", len(core))

	create := "gh repo create " + req.Name + " --" + string(req.Visibility)
	if req.Description != "" {
		create += " --description " + strconv.Quote(req.Description)
	}
	add(PhaseRemoteCreating, false, create, "Create %s GitHub repository", req.Visibility)
	add(PhaseRemoteCreating, false, "git remote add origin https://github.com/<owner>/"+req.Name+".git",
		"Add origin remote")

	if len(req.Topics) > 0 {
		add(PhaseConfiguring, true, "gh repo edit --add-topic ...", "Add topics: %s", strings.Join(req.Topics, ", "))
	}
	if req.AutoMerge {
		add(PhaseConfiguring, true, "gh repo edit --enable-auto-merge --delete-branch-on-merge",
			"Enable auto-merge and delete merged branches")
	}
	if req.CreateProject {
		names := make([]string, len(plan.ProjectFields))
		for i, f := range plan.ProjectFields {
			names[i] = f.Name
		}
		add(PhaseConfiguring, true, "gh project create --owner @me --title "+strconv.Quote(plan.ProjectTitle),
			"Create project board %q with fields: %s", plan.ProjectTitle, strings.Join(names, ", "))
	}
	if len(automation) > 0 {
		add(PhaseConfiguring, true, "", "Write %d automation workflows", len(automation))
	}

	add(PhasePublishing, false, `git add -A && git commit -m "Initial commit"`, "Create initial commit")
	add(PhasePublishing, true, "git push -u origin "+req.DefaultBranch, "Push %s to origin", req.DefaultBranch)
	if req.BranchProtection {
		add(PhasePublishing, true, "gh api --method PUT repos/<owner>/"+req.Name+"/branches/"+req.DefaultBranch+"/protection",
			"Protect branch %s (1 review, no force pushes)", req.DefaultBranch)
	}
	return actions
}

func splitArtifacts(artifacts []PlannedArtifact) (core, automation []PlannedArtifact) {
	for _, a := range artifacts {
		if a.BestEffort {
			automation = append(automation, a)
		} else {
			core = append(core, a)
		}
	}
	return core, automation
}

// Paths returns the planned file paths in write order.
func (p Plan) Paths() []string {
	paths := make([]string, len(p.Artifacts))
	for i, a := range p.Artifacts {
		paths[i] = a.Path
	}
	return paths
}
