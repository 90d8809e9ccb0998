package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Data is the context every template renders against.
type Data struct {
	Name        string
	Description string
	// Owner is the GitHub login, empty when unknown (dry run).
	Owner string
	// Holder is the copyright holder; defaults to Owner, then "The <Name> Authors".
	Holder    string
	Branch    string
	License   string
	Ecosystem string
	Year      int
	Website   bool
}

// Template is a parsed template file.
type Template struct {
	Description string `yaml:"description"`

	Key     string `yaml:"-"`
	Content string `yaml:"-"`
	Source  string `yaml:"-"`
}

// Info describes a template for listing.
type Info struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   bool   `json:"overrides,omitempty"`
}

// Provider resolves and renders templates by key.
type Provider struct {
	overrideDir string
}

// New creates a Provider that prefers templates found under overrideDir.
// An empty overrideDir disables overrides.
func New(overrideDir string) *Provider {
	return &Provider{overrideDir: overrideDir}
}

// Builtin returns a Provider that only serves embedded templates.
func Builtin() *Provider {
	return New("")
}

// Load finds a template by key.
// Resolution order: override directory, then built-in.
// A broken override is an error, not a silent fallback.
func (p *Provider) Load(key string) (*Template, error) {
	tmpl, err := loadFromDir(p.overrideDir, key)
	switch {
	case err == nil:
		tmpl.Source = "global"
		return tmpl, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	if tmpl, err := loadBuiltin(key); err == nil {
		tmpl.Source = "built-in"
		return tmpl, nil
	}
	return nil, fmt.Errorf("template %q not found", key)
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Render loads key and executes it against data. The result always ends in
// a single newline.
func (p *Provider) Render(key string, data Data) (string, error) {
	tmpl, err := p.Load(key)
	if err != nil {
		return "", err
	}
	if data.Holder == "" {
		data.Holder = data.Owner
	}
	if data.Holder == "" {
		data.Holder = "The " + data.Name + " Authors"
	}

	parsed, err := template.New(key).Delims("[[", "]]").Funcs(funcs).Option("missingkey=error").Parse(tmpl.Content)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", key, err)
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", key, err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// List returns every available template. Built-ins shadowed by an override
// are reported once, marked Overrides.
func (p *Provider) List() []Info {
	overridden := make(map[string]bool)
	var infos []Info
	for _, info := range listFromDir(p.overrideDir) {
		overridden[info.Key] = true
		info.Overrides = isBuiltin(info.Key)
		infos = append(infos, info)
	}
	for _, info := range listBuiltins() {
		if !overridden[info.Key] {
			infos = append(infos, info)
		}
	}
	return infos
}

func loadFromDir(dir, key string) (*Template, error) {
	if dir == "" {
		return nil, fs.ErrNotExist
	}
	path := filepath.Join(dir, filepath.FromSlash(key)+".tmpl")
	data, err := os.ReadFile(path) //nolint:gosec // path is under the user's config dir
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return parseTemplate(key, string(data))
}

func listFromDir(dir string) []Info {
	if dir == "" {
		return nil
	}
	var infos []Info
	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), ".tmpl")
		tmpl, loadErr := loadFromDir(dir, key)
		if loadErr != nil {
			return nil
		}
		infos = append(infos, Info{Key: key, Description: tmpl.Description, Source: "global"})
		return nil
	})
	return infos
}

// parseTemplate splits YAML frontmatter from the template body.
func parseTemplate(key, raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	tmpl := Template{Key: key}
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter in %s: %w", key, err)
		}
	}
	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimLeft(raw, "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return "", raw
	}

	rest := raw[4:]
	before, after, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return "", raw
	}
	return strings.TrimSpace(before), after
}
