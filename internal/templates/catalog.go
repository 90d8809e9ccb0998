package templates

import "strings"

// Fixed keys.
const (
	KeyREADME           = "readme"
	KeyDependabot       = "dependabot"
	KeyDocusaurusIgnore = "gitignore/docusaurus"
)

// Licenses lists the license identifiers with a built-in template.
var Licenses = []string{"MIT", "Apache-2.0", "GPL-3.0"}

// Gitignores lists the .gitignore template kinds.
var Gitignores = []string{"python", "node", "go", "general"}

// SiteFiles are the Docusaurus skeleton paths, relative to the repository root.
var SiteFiles = []string{
	"package.json",
	"docusaurus.config.js",
	"sidebars.js",
	"docs/intro.md",
	"src/css/custom.css",
	"src/components/HomepageFeatures/index.js",
}

// CanonicalLicense matches id case-insensitively against Licenses.
func CanonicalLicense(id string) (string, bool) {
	for _, known := range Licenses {
		if strings.EqualFold(known, id) {
			return known, true
		}
	}
	return "", false
}

// CanonicalGitignore matches kind case-insensitively against Gitignores.
func CanonicalGitignore(kind string) (string, bool) {
	for _, known := range Gitignores {
		if strings.EqualFold(known, kind) {
			return known, true
		}
	}
	return "", false
}

// GitignoreKey returns the template key for a .gitignore kind.
func GitignoreKey(kind string) string { return "gitignore/" + kind }

// LicenseKey returns the template key for a license identifier.
func LicenseKey(id string) string { return "license/" + id }

// WorkflowKey returns the template key for a workflow file name without extension.
func WorkflowKey(name string) string { return "workflows/" + name }

// SiteKey returns the template key for a site skeleton path.
func SiteKey(path string) string { return "site/" + path }

// CIKey returns the ci.yml template key for the project.
// A website wins over a generic or absent language.
func CIKey(gitignore string, website bool) string {
	switch gitignore {
	case "python", "node", "go":
		return "ci/" + gitignore
	}
	if website {
		return "ci/docs"
	}
	return "ci/generic"
}

// Ecosystem returns the dependabot package-ecosystem for the project, or "".
func Ecosystem(gitignore string, website bool) string {
	switch gitignore {
	case "python":
		return "pip"
	case "node":
		return "npm"
	case "go":
		return "gomod"
	}
	if website {
		return "npm"
	}
	return ""
}
