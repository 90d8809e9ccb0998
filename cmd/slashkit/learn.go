package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/learn"
	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/prompt"
)

// learnFlags holds the flags shared by the learn subcommands.
type learnFlags struct {
	file        string
	section     int
	newSection  string
	mode        string
	context     string
	application string
}

// newLearnCmd creates the learn command and its subcommands.
func newLearnCmd() *cobra.Command {
	flags := &learnFlags{}

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Fold session learnings into CLAUDE.md",
		Long: `Fold session learnings into your notes file (default ~/.claude/CLAUDE.md).

Each learning is written as a "Session Learning" block with context, the
learning itself and how to apply it. The file is backed up to
CLAUDE.md.backup-YYYYMMDD-HHMMSS before every change.

Examples:
  slashkit learn sections
  slashkit learn add "Use --force-with-lease for feature branches"
  slashkit learn add "Run lint before push" --section 3 --mode insert
  slashkit learn add "Pin action versions" --new-section "CI Lessons"
  slashkit learn show 3`,
	}
	cmd.PersistentFlags().StringVar(&flags.file, "file", "", "Notes file (default ~/.claude/CLAUDE.md)")

	cmd.AddCommand(newLearnSectionsCmd(flags))
	cmd.AddCommand(newLearnShowCmd(flags))
	cmd.AddCommand(newLearnAddCmd(flags))
	return cmd
}

func newLearnSectionsCmd(flags *learnFlags) *cobra.Command {
	var about string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the headings of the notes file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			nb, sections, err := openNotebook(printer, flags.file)
			if err != nil {
				return err
			}
			suggestions := learn.Suggest(about, sections)
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"path":        nb.Path(),
					"sections":    sections,
					"suggestions": suggestions,
				})
			}
			printSections(printer, sections, suggestions)
			return nil
		},
	}
	cmd.Flags().StringVar(&about, "for", "", "Suggest sections for this learning text")
	return cmd
}

func newLearnShowCmd(flags *learnFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Print one section, for placing a learning by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			nb, sections, err := openNotebook(printer, flags.file)
			if err != nil {
				return err
			}
			section, err := pickSection(sections, args[0])
			if err != nil {
				printer.Error(err)
				return err
			}
			content, err := nb.Read()
			if err != nil {
				exitErr := output.NewSystemErrorWithCause(err.Error(), err)
				printer.Error(exitErr)
				return exitErr
			}
			body := learn.SectionBody(content, section.Line)
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"section": section, "content": body})
			}
			printer.Print("%s", body)
			return nil
		},
	}
}

func newLearnAddCmd(flags *learnFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <learning>",
		Short: "Add a learning to the notes file",
		Long: `Add a learning to the notes file.

Choose the target with --section N (from 'learn sections') or --new-section.
In a terminal without either flag you are asked to pick one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLearnAdd(cmd, strings.Join(args, " "), flags)
		},
	}
	cmd.Flags().IntVar(&flags.section, "section", 0, "Target section number")
	cmd.Flags().StringVar(&flags.newSection, "new-section", "", "Create a new section with this name")
	cmd.Flags().StringVar(&flags.mode, "mode", string(learn.ModeAppend), "append (end of section) or insert (after heading)")
	cmd.Flags().StringVar(&flags.context, "context", "", "Where the learning came from")
	cmd.Flags().StringVar(&flags.application, "application", "", "How to apply it next time")
	cmd.MarkFlagsMutuallyExclusive("section", "new-section")
	return cmd
}

func runLearnAdd(cmd *cobra.Command, text string, flags *learnFlags) error {
	printer := newPrinter(cmd)
	nb, sections, err := openNotebook(printer, flags.file)
	if err != nil {
		return err
	}

	target, err := learnTarget(cmd, printer, sections, text, flags)
	if err != nil {
		if !errors.Is(err, prompt.ErrCanceled) {
			printer.Error(err)
			return err
		}
		exitErr := output.NewUserError("canceled")
		printer.Error(exitErr)
		return exitErr
	}

	result, err := nb.Add(target, learn.Entry{Context: flags.context, Learning: text, Application: flags.application})
	if err != nil {
		exitErr := learnExitError(err)
		printer.Error(exitErr)
		return exitErr
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printer.Step(output.StepOK, "Learning added to "+result.Section, string(result.Mode))
	printer.KeyValue("File", result.Path)
	printer.KeyValue("Backup", result.Backup)
	printer.KeyValue("Timestamp", result.Timestamp)
	return nil
}

// learnTarget resolves the target from flags, or asks for it on a terminal.
func learnTarget(cmd *cobra.Command, printer *output.Printer, sections []learn.Section, text string, flags *learnFlags) (learn.Target, error) {
	mode := learn.Mode(flags.mode)
	if mode != learn.ModeAppend && mode != learn.ModeInsert {
		return learn.Target{}, output.NewUserError("--mode must be append or insert")
	}
	if flags.newSection != "" {
		return learn.Target{Mode: learn.ModeNew, Name: flags.newSection}, nil
	}
	if cmd.Flags().Changed("section") {
		section, err := pickSection(sections, strconv.Itoa(flags.section))
		if err != nil {
			return learn.Target{}, err
		}
		return learn.Target{Mode: mode, Line: section.Line}, nil
	}

	if printer.IsJSON() || !isTerminal(cmd.InOrStdin()) {
		return learn.Target{}, output.NewUserError("no target section").
			WithHint("pass --section N (see 'slashkit learn sections') or --new-section NAME")
	}

	printSections(printer, sections, learn.Suggest(text, sections))
	newChoice := strconv.Itoa(len(sections) + 1)
	choices := make([]string, 0, len(sections)+1)
	for i := range sections {
		choices = append(choices, strconv.Itoa(i+1))
	}
	choices = append(choices, newChoice)

	answers, err := prompt.Ask(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), []prompt.Question{
		{Key: "section", Label: "Target section (" + newChoice + " = new section)", Kind: prompt.Choice, Default: "1", Choices: choices},
	})
	if err != nil {
		return learn.Target{}, err
	}
	if answers["section"] == newChoice {
		answers, err = prompt.Ask(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), []prompt.Question{
			{Key: "name", Label: "New section name", Validate: func(s string) error {
				if s == "" {
					return errors.New("name is required")
				}
				return nil
			}},
		})
		if err != nil {
			return learn.Target{}, err
		}
		return learn.Target{Mode: learn.ModeNew, Name: answers["name"]}, nil
	}

	section, err := pickSection(sections, answers["section"])
	if err != nil {
		return learn.Target{}, err
	}
	if !cmd.Flags().Changed("mode") {
		answers, err = prompt.Ask(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), []prompt.Question{
			{Key: "mode", Label: "Placement", Kind: prompt.Choice, Default: string(learn.ModeAppend),
				Choices: []string{string(learn.ModeAppend), string(learn.ModeInsert)}},
		})
		if err != nil {
			return learn.Target{}, err
		}
		mode = learn.Mode(answers["mode"])
	}
	return learn.Target{Mode: mode, Line: section.Line}, nil
}

// openNotebook opens the notes file and reads its sections, reporting
// failures through printer.
func openNotebook(printer *output.Printer, path string) (*learn.Notebook, []learn.Section, error) {
	if path == "" {
		path = learn.DefaultPath()
	}
	nb, err := learn.Open(path)
	if err != nil {
		exitErr := learnExitError(err)
		printer.Error(exitErr)
		return nil, nil, exitErr
	}
	sections, err := nb.Sections()
	if err != nil {
		exitErr := learnExitError(err)
		printer.Error(exitErr)
		return nil, nil, exitErr
	}
	return nb, sections, nil
}

func learnExitError(err error) *output.ExitError {
	switch {
	case errors.Is(err, learn.ErrNotFound):
		return output.NewUserErrorWithCause(err.Error(), err).
			WithHint("create the file first or pass --file")
	case errors.Is(err, learn.ErrEmptyLearning), errors.Is(err, learn.ErrNoSection):
		return output.NewUserErrorWithCause(err.Error(), err)
	default:
		return output.NewSystemErrorWithCause(err.Error(), err)
	}
}

// pickSection maps a 1-based section number to its section.
func pickSection(sections []learn.Section, choice string) (learn.Section, error) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(sections) {
		return learn.Section{}, output.NewUserError("no section " + choice).
			WithHint("run 'slashkit learn sections' to list section numbers")
	}
	return sections[n-1], nil
}

func printSections(printer *output.Printer, sections []learn.Section, suggestions []string) {
	rows := make([][]string, 0, len(sections))
	for i, s := range sections {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Header})
	}
	printer.Table([]string{"#", "SECTION"}, rows)
	if len(suggestions) > 0 {
		printer.Println()
		printer.KeyValue("Suggested", strings.Join(suggestions, ", "))
	}
	printer.Println()
}
