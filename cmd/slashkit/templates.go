package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/templates"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the file templates github-init renders",
		Long: `List the file templates github-init renders, with their source.

Place a file at <config dir>/templates/<key>.tmpl to override a built-in
template (for example templates/readme.tmpl). Templates use [[ ]] delimiters
so GitHub Actions ${{ }} expressions pass through untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplates(cmd)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <key>",
		Short: "Print a template's raw content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesShow(cmd, args[0])
		},
	})
	return cmd
}

func runTemplates(cmd *cobra.Command) error {
	printer := newPrinter(cmd)
	infos := templates.New(templateDir()).List()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"dir": templateDir(), "templates": infos})
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		source := info.Source
		if info.Overrides {
			source += " (overrides built-in)"
		}
		rows = append(rows, []string{info.Key, info.Description, source})
	}
	printer.Table([]string{"KEY", "DESCRIPTION", "SOURCE"}, rows)
	return nil
}

func runTemplatesShow(cmd *cobra.Command, key string) error {
	printer := newPrinter(cmd)
	tmpl, err := templates.New(templateDir()).Load(key)
	if err != nil {
		exitErr := output.NewUserErrorWithCause(err.Error(), err).
			WithHint("run 'slashkit templates' to list keys")
		printer.Error(exitErr)
		return exitErr
	}
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"key":         tmpl.Key,
			"description": tmpl.Description,
			"source":      tmpl.Source,
			"content":     tmpl.Content,
		})
	}
	printer.Print("%s", tmpl.Content)
	return nil
}
