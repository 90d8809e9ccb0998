// Package templates supplies the fixed file payloads written into a new
// repository: README, .gitignore, LICENSE, CI and automation workflows,
// dependabot config and the Docusaurus skeleton.
//
// Payloads are text/template files embedded in the binary under files/. Each
// starts with YAML frontmatter carrying a description. Templates use [[ ]]
// delimiters so GitHub Actions ${{ }} expressions pass through untouched.
//
// A file at <config dir>/templates/<key>.tmpl overrides the built-in
// template with the same key:
//
//	~/.config/slashkit/templates/gitignore/python.tmpl
//	~/.config/slashkit/templates/workflows/release.tmpl
package templates
