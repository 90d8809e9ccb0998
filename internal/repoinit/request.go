package repoinit

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/gorewood/slashkit/internal/templates"
)

// Visibility of the remote repository.
type Visibility string

// Visibilities.
const (
	Private Visibility = "private"
	Public  Visibility = "public"
)

// ProjectTemplate selects the custom fields created on the project board.
type ProjectTemplate string

// Project templates.
const (
	ProjectBasic       ProjectTemplate = "basic"
	ProjectDevelopment ProjectTemplate = "development"
	ProjectRelease     ProjectTemplate = "release"
)

// ProjectTemplates lists the known project templates.
var ProjectTemplates = []ProjectTemplate{ProjectBasic, ProjectDevelopment, ProjectRelease}

// Title is the capitalized template name used in board titles.
func (t ProjectTemplate) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Request is everything needed to bootstrap one repository.
// The initializer takes it by value; it never changes once a run starts.
type Request struct {
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Visibility       Visibility      `json:"visibility"`
	License          string          `json:"license,omitempty"`
	Gitignore        string          `json:"gitignore,omitempty"`
	README           bool            `json:"readme"`
	DefaultBranch    string          `json:"default_branch"`
	Topics           []string        `json:"topics,omitempty"`
	CreateWebsite    bool            `json:"create_website"`
	EnableDependabot bool            `json:"enable_dependabot"`
	CreateProject    bool            `json:"create_project"`
	ProjectTemplate  ProjectTemplate `json:"project_template"`
	AutoVersion      bool            `json:"auto_version"`
	AutoMerge        bool            `json:"auto_merge"`
	AutoRelease      bool            `json:"auto_release"`
	ClaudeReview     bool            `json:"claude_review"`
	BranchProtection bool            `json:"branch_protection"`
	DryRun           bool            `json:"dry_run"`
}

// NewRequest returns a request for name with every built-in default applied.
func NewRequest(name string) Request {
	return Request{
		Name:             name,
		Visibility:       Private,
		README:           true,
		DefaultBranch:    "main",
		EnableDependabot: true,
		CreateProject:    true,
		ProjectTemplate:  ProjectDevelopment,
		AutoVersion:      true,
		AutoMerge:        true,
		AutoRelease:      true,
		BranchProtection: true,
	}
}

// Private reports whether the remote is private.
func (r Request) Private() bool {
	return r.Visibility != Public
}

const maxNameLength = 100

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	topicPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,49}$`)
)

// Validate reports the first problem with the request, or nil.
func (r Request) Validate() error {
	_, err := r.Normalized()
	return err
}

// Normalized returns a canonical copy of the request: identifiers in their
// canonical case, topics cleaned and de-duplicated, empty optional choices
// filled. It fails with a KindInvalidRequest *Error.
func (r Request) Normalized() (Request, error) {
	if err := validateName(r.Name); err != nil {
		return r, invalid("repository name", err)
	}
	if err := validateBranch(r.DefaultBranch); err != nil {
		return r, invalid("default branch", err)
	}

	switch Visibility(strings.ToLower(string(r.Visibility))) {
	case "", Private:
		r.Visibility = Private
	case Public:
		r.Visibility = Public
	default:
		return r, invalid("visibility", fmt.Errorf("%q must be private or public", r.Visibility))
	}

	if r.License != "" {
		id, ok := templates.CanonicalLicense(r.License)
		if !ok {
			return r, invalid("license", unknownChoice(r.License, templates.Licenses))
		}
		r.License = id
	}

	if r.Gitignore != "" {
		kind, ok := templates.CanonicalGitignore(r.Gitignore)
		if !ok {
			return r, invalid("gitignore template", unknownChoice(r.Gitignore, templates.Gitignores))
		}
		r.Gitignore = kind
	}

	if r.ProjectTemplate == "" {
		r.ProjectTemplate = ProjectDevelopment
	}
	tmpl := ProjectTemplate(strings.ToLower(string(r.ProjectTemplate)))
	if !slices.Contains(ProjectTemplates, tmpl) {
		names := make([]string, len(ProjectTemplates))
		for i, t := range ProjectTemplates {
			names[i] = string(t)
		}
		return r, invalid("project template", unknownChoice(string(r.ProjectTemplate), names))
	}
	r.ProjectTemplate = tmpl

	topics, err := normalizeTopics(r.Topics)
	if err != nil {
		return r, invalid("topic", err)
	}
	r.Topics = topics
	return r, nil
}

func invalid(field string, err error) *Error {
	return &Error{Kind: KindInvalidRequest, Phase: PhaseStart, Op: "invalid " + field, Err: err}
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("name is required")
	case len(name) > maxNameLength:
		return fmt.Errorf("%q is longer than %d characters", name, maxNameLength)
	case name == "." || name == "..":
		return fmt.Errorf("%q is reserved", name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%q must not start with '-'", name)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%q may only contain letters, digits, '.', '-' and '_'", name)
	case strings.HasSuffix(strings.ToLower(name), ".git"):
		return fmt.Errorf("%q must not end in .git", name)
	}
	return nil
}

// validateBranch applies the subset of git check-ref-format rules a user is likely to trip.
func validateBranch(branch string) error {
	switch {
	case branch == "":
		return fmt.Errorf("branch name is required")
	case strings.ContainsAny(branch, " \t\n~^:?*[\\"):
		return fmt.Errorf("%q contains a character git does not allow", branch)
	case strings.Contains(branch, ".."):
		return fmt.Errorf("%q must not contain '..'", branch)
	case strings.HasPrefix(branch, "-"), strings.HasPrefix(branch, "/"):
		return fmt.Errorf("%q must not start with '-' or '/'", branch)
	case strings.HasSuffix(branch, "/"), strings.HasSuffix(branch, ".lock"):
		return fmt.Errorf("%q must not end with '/' or '.lock'", branch)
	}
	return nil
}

func normalizeTopics(raw []string) ([]string, error) {
	var topics []string
	for _, topic := range raw {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" || slices.Contains(topics, topic) {
			continue
		}
		if !topicPattern.MatchString(topic) {
			return nil, fmt.Errorf("%q must be lowercase letters, digits and hyphens, start with a letter or digit, at most 50 characters", topic)
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

func unknownChoice(value string, choices []string) error {
	if s := suggest(value, choices); s != "" {
		return fmt.Errorf("unknown value %q (did you mean %q?); choose one of %s", value, s, strings.Join(choices, ", "))
	}
	return fmt.Errorf("unknown value %q; choose one of %s", value, strings.Join(choices, ", "))
}

// suggest returns the closest choice to value, or "".
func suggest(value string, choices []string) string {
	lower := strings.ToLower(value)
	lowered := make([]string, len(choices))
	for i, c := range choices {
		lowered[i] = strings.ToLower(c)
	}
	if matches := fuzzy.Find(lower, lowered); len(matches) > 0 {
		return choices[matches[0].Index]
	}
	// Typos that break subsequence order ("mti") still share a prefix.
	for _, choice := range choices {
		if lower != "" && strings.HasPrefix(strings.ToLower(choice), lower[:1]) {
			return choice
		}
	}
	return ""
}
