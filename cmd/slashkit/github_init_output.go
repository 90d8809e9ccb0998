package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/repoinit"
)

// phaseTitles are the section headings printed as a run progresses.
var phaseTitles = map[repoinit.Phase]string{
	repoinit.PhaseValidating:     "Checking prerequisites",
	repoinit.PhaseBuilding:       "Creating local repository",
	repoinit.PhaseRemoteCreating: "Creating GitHub repository",
	repoinit.PhaseConfiguring:    "Configuring repository",
	repoinit.PhasePublishing:     "Publishing",
	repoinit.PhaseRollingBack:    "Rolling back",
}

// initReporter streams run progress to a Printer. It is silent in JSON mode.
type initReporter struct {
	printer *output.Printer
}

func newInitReporter(printer *output.Printer) repoinit.Reporter {
	return &initReporter{printer: printer}
}

func (r *initReporter) Phase(phase repoinit.Phase) {
	if r.printer.IsJSON() {
		return
	}
	if title, ok := phaseTitles[phase]; ok {
		r.printer.Section(title)
	}
}

func (r *initReporter) Step(status, name, detail string) {
	if r.printer.IsJSON() {
		return
	}
	r.printer.Step(status, name, detail)
}

func (r *initReporter) Warn(w *repoinit.Error) {
	if r.printer.IsJSON() {
		return
	}
	r.printer.Step(output.StepWarn, w.Error(), w.Remediation)
}

// outputPlanHuman renders a dry-run plan.
func outputPlanHuman(printer *output.Printer, plan repoinit.Plan) {
	printer.Section("Dry run: " + plan.Request.Name)
	for _, t := range plan.Toggles {
		printer.KeyValue(t.Name, t.Value)
	}

	printer.Section("Files")
	rows := make([][]string, 0, len(plan.Artifacts))
	for _, a := range plan.Artifacts {
		when := "local"
		if a.BestEffort {
			when = "after remote"
		}
		rows = append(rows, []string{a.Path, a.Description, when})
	}
	printer.Table([]string{"PATH", "CONTENT", "WRITTEN"}, rows)

	printer.Section("Steps")
	for _, a := range plan.Actions {
		detail := a.Command
		if a.BestEffort {
			detail = strings.TrimSpace(detail + " (warning on failure)")
		}
		printer.Step(output.StepDryRun, strconv.Itoa(a.Step)+". "+a.Description, detail)
	}

	if plan.ProjectTitle != "" {
		printer.Section("Project board")
		printer.KeyValue("Title", plan.ProjectTitle)
		for _, f := range plan.ProjectFields {
			value := string(f.Type)
			if len(f.Options) > 0 {
				value += ": " + strings.Join(f.Options, ", ")
			}
			printer.KeyValue(f.Name, value)
		}
	}
	if plan.Protection != nil {
		printer.Section("Branch protection")
		printer.KeyValue("Branch", plan.Request.DefaultBranch)
		printer.KeyValue("Required reviews", strconv.Itoa(plan.Protection.RequiredReviews))
		printer.KeyValue("Dismiss stale reviews", strconv.FormatBool(plan.Protection.DismissStaleReviews))
		printer.KeyValue("Require up-to-date branch", strconv.FormatBool(plan.Protection.StrictStatusChecks))
	}

	printer.Println()
	printer.Println("No changes made. Run again without --dry-run to create the repository.")
}

// outputInitHuman renders the summary after a successful run.
func outputInitHuman(printer *output.Printer, outcome *repoinit.Outcome) {
	printer.Section("Done")
	printer.KeyValue("Repository", outcome.URL)
	printer.KeyValue("Directory", outcome.Directory)
	if outcome.ProjectURL != "" {
		printer.KeyValue("Project", outcome.ProjectURL)
	}
	printer.KeyValue("Files", strconv.Itoa(len(outcome.Files)))
	if !outcome.Pushed {
		printer.KeyValue("Pushed", "no (run git push -u origin "+outcome.Plan.Request.DefaultBranch+")")
	}

	if n := len(outcome.Warnings); n > 0 {
		printer.Println()
		printer.Print("%d step(s) finished with warnings; the repository is usable.\n", n)
	}
	printer.Println()
	printer.Print("Next: cd %s\n", outcome.Plan.Request.Name)
}

// outputRollbackSummary tells the user what was undone after a fatal error.
func outputRollbackSummary(printer *output.Printer, outcome *repoinit.Outcome) {
	if outcome == nil || outcome.State.Phase != repoinit.PhaseFailed {
		return
	}
	var leftovers []string
	for _, w := range outcome.Warnings {
		if w.Kind == repoinit.KindRollback {
			leftovers = append(leftovers, w.Error())
		}
	}
	if len(leftovers) == 0 {
		return
	}
	printer.Stderr("\nSome changes could not be undone:\n")
	for _, l := range leftovers {
		printer.Stderr("  - %s\n", l)
	}
}

// outputInitJSON writes the outcome as a single JSON document.
func outputInitJSON(printer *output.Printer, outcome *repoinit.Outcome, configWarnings []string) error {
	data := map[string]any{
		"status":  "created",
		"outcome": outcome,
	}
	if outcome.DryRun {
		data["status"] = "dry_run"
	}
	if len(configWarnings) > 0 {
		data["config_warnings"] = configWarnings
	}
	return printer.WriteJSON(data)
}

// outputInitFailureJSON writes a fatal error and whatever the run left behind.
func outputInitFailureJSON(printer *output.Printer, err error, outcome *repoinit.Outcome, configWarnings []string) error {
	exitErr, ok := err.(*output.ExitError)
	if !ok {
		exitErr = output.NewUserError(err.Error())
	}
	data := map[string]any{
		"error": exitErr.Message,
		"code":  exitErr.Code,
	}
	if exitErr.Hint != "" {
		data["hint"] = exitErr.Hint
	}
	if outcome != nil {
		data["outcome"] = outcome
	}
	if len(configWarnings) > 0 {
		data["config_warnings"] = configWarnings
	}
	if werr := printer.WriteJSON(data); werr != nil {
		return fmt.Errorf("writing error: %w", werr)
	}
	return nil
}
