package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults holds github-init values read from config.yaml.
// A nil field means the key was absent (or unusable) and the built-in default applies.
type Defaults struct {
	Description            *string
	Private                *bool
	License                *string
	Gitignore              *string
	README                 *bool
	DefaultBranch          *string
	Topics                 []string
	CreateWebsite          *bool
	EnableDependabot       *bool
	CreateProject          *bool
	ProjectTemplate        *string
	EnableAutoVersion      *bool
	EnableAutoMerge        *bool
	EnableAutoRelease      *bool
	EnableClaudeReview     *bool
	EnableBranchProtection *bool
}

type stringField func(d *Defaults, v string)
type boolField func(d *Defaults, v bool)

var stringKeys = map[string]stringField{
	"description":      func(d *Defaults, v string) { d.Description = &v },
	"license":          func(d *Defaults, v string) { d.License = &v },
	"gitignore":        func(d *Defaults, v string) { d.Gitignore = &v },
	"default_branch":   func(d *Defaults, v string) { d.DefaultBranch = &v },
	"project_template": func(d *Defaults, v string) { d.ProjectTemplate = &v },
}

var boolKeys = map[string]boolField{
	"private":                  func(d *Defaults, v bool) { d.Private = &v },
	"readme":                   func(d *Defaults, v bool) { d.README = &v },
	"create_website":           func(d *Defaults, v bool) { d.CreateWebsite = &v },
	"enable_dependabot":        func(d *Defaults, v bool) { d.EnableDependabot = &v },
	"create_project":           func(d *Defaults, v bool) { d.CreateProject = &v },
	"enable_auto_version":      func(d *Defaults, v bool) { d.EnableAutoVersion = &v },
	"enable_auto_merge":        func(d *Defaults, v bool) { d.EnableAutoMerge = &v },
	"enable_auto_release":      func(d *Defaults, v bool) { d.EnableAutoRelease = &v },
	"enable_claude_review":     func(d *Defaults, v bool) { d.EnableClaudeReview = &v },
	"enable_branch_protection": func(d *Defaults, v bool) { d.EnableBranchProtection = &v },
}

// Load reads the defaults file at path. It never fails: a missing file yields
// empty Defaults, and anything wrong with the file is reported as a warning
// while the rest of the file is still honored where possible.
func Load(path string) (Defaults, []string) {
	if path == "" {
		return Defaults{}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults{}, nil
		}
		return Defaults{}, []string{fmt.Sprintf("cannot read config %s: %v; using built-in defaults", path, err)}
	}
	return Parse(data, path)
}

// Parse decodes defaults from YAML bytes. source names the file in warnings.
func Parse(data []byte, source string) (Defaults, []string) {
	var defaults Defaults
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return defaults, []string{fmt.Sprintf("malformed config %s: %v; using built-in defaults", source, err)}
	}
	if len(doc.Content) == 0 {
		return defaults, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return defaults, []string{fmt.Sprintf("config %s: top level must be a mapping; using built-in defaults", source)}
	}

	var warnings []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value := root.Content[i+1]
		if warning := applyKey(&defaults, key, value); warning != "" {
			warnings = append(warnings, fmt.Sprintf("config %s line %d: %s", source, root.Content[i].Line, warning))
		}
	}
	return defaults, warnings
}

func applyKey(d *Defaults, key string, value *yaml.Node) string {
	if set, ok := stringKeys[key]; ok {
		if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
			return fmt.Sprintf("%s must be a string; ignored", key)
		}
		set(d, value.Value)
		return ""
	}
	if set, ok := boolKeys[key]; ok {
		var b bool
		if value.Kind != yaml.ScalarNode || value.Tag != "!!bool" || value.Decode(&b) != nil {
			return fmt.Sprintf("%s must be true or false; ignored", key)
		}
		set(d, b)
		return ""
	}
	if key == "topics" {
		return applyTopics(d, value)
	}
	return fmt.Sprintf("unknown key %q ignored", key)
}

// applyTopics accepts either a YAML list or a comma-separated string.
func applyTopics(d *Defaults, value *yaml.Node) string {
	switch value.Kind {
	case yaml.SequenceNode:
		var topics []string
		if err := value.Decode(&topics); err != nil {
			return "topics must be a list of strings; ignored"
		}
		d.Topics = topics
	case yaml.ScalarNode:
		d.Topics = SplitList(value.Value)
	default:
		return "topics must be a list or a comma-separated string; ignored"
	}
	return ""
}

// SplitList splits a comma-separated value, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
