package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/slashkit/internal/config"
	"github.com/gorewood/slashkit/internal/envfile"
	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/repoinit"
	"github.com/gorewood/slashkit/internal/templates"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version string         `json:"version"`
	Tools   []checkResult  `json:"tools"`
	Config  []checkResult  `json:"config"`
	Summary *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// doctorFlags holds the command-line flags for the doctor command.
type doctorFlags struct {
	website bool
	quiet   bool
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that github-init can run on this machine",
		Long: `Check every prerequisite of github-init without stopping at the first problem.

TOOLS  - git, gh, gh authentication and API access (Node.js 18+ with --website)
CONFIG - config.yaml, the env file and template overrides

Exits with code 4 when a tool check fails.

Examples:
  slashkit doctor
  slashkit doctor --website
  slashkit doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.website, "website", false, "Also check Node.js for --create-website")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

// runDoctor executes the doctor command.
func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	printer := newPrinter(cmd)

	result := &doctorResult{
		Version: version,
		Tools:   toolChecks(repoinit.NewValidator(newRunner()).CheckAll(cmd.Context(), flags.website)),
		Config:  configChecks(),
		Summary: &doctorSummary{},
	}
	for _, check := range append(append([]checkResult{}, result.Tools...), result.Config...) {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(result); err != nil {
			return err
		}
	} else {
		outputDoctorHuman(printer, result, flags.quiet)
	}

	if result.Summary.Failed > 0 {
		return output.NewPrerequisiteError(fmt.Sprintf("%d check(s) failed", result.Summary.Failed), "")
	}
	return nil
}

// toolChecks converts validator results to doctor checks.
func toolChecks(results []repoinit.ValidationResult) []checkResult {
	checks := make([]checkResult, 0, len(results))
	for _, r := range results {
		check := checkResult{Name: r.Check, Status: checkPass}
		switch {
		case !r.OK:
			check.Status = checkFail
			check.Message = r.Detail
			check.Hint = r.Remediation
		case r.Version != "":
			check.Message = r.Version
		default:
			check.Message = r.Detail
		}
		checks = append(checks, check)
	}
	return checks
}

// configChecks inspects the config directory.
func configChecks() []checkResult {
	dir := config.Dir()
	if dir == "" {
		return []checkResult{{
			Name:    "config dir",
			Status:  checkWarn,
			Message: "cannot determine config directory",
			Hint:    "set SLASHKIT_CONFIG_HOME",
		}}
	}

	var checks []checkResult

	path := config.Path()
	if _, err := os.Stat(path); err != nil {
		checks = append(checks, checkResult{Name: "config file", Status: checkPass, Message: "none (built-in defaults)"})
	} else if _, warnings := config.Load(path); len(warnings) > 0 {
		checks = append(checks, checkResult{
			Name:    "config file",
			Status:  checkWarn,
			Message: fmt.Sprintf("%s: %d problem(s), first: %s", path, len(warnings), warnings[0]),
			Hint:    "offending keys are ignored",
		})
	} else {
		checks = append(checks, checkResult{Name: "config file", Status: checkPass, Message: path})
	}

	envPath := filepath.Join(dir, "env")
	switch vars, err := envfile.Read(envPath); {
	case err != nil:
		checks = append(checks, checkResult{Name: "env file", Status: checkWarn, Message: err.Error()})
	case len(vars) == 0:
		checks = append(checks, checkResult{Name: "env file", Status: checkPass, Message: "none"})
	default:
		keys := make([]string, 0, len(vars))
		for _, v := range vars {
			keys = append(keys, v.Key)
		}
		checks = append(checks, checkResult{Name: "env file", Status: checkPass, Message: fmt.Sprintf("%s sets %v", envPath, keys)})
	}

	overrides := 0
	for _, info := range templates.New(templateDir()).List() {
		if info.Source != "built-in" {
			overrides++
		}
	}
	checks = append(checks, checkResult{
		Name:    "templates",
		Status:  checkPass,
		Message: fmt.Sprintf("%d override(s) in %s", overrides, templateDir()),
	})
	return checks
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("slashkit doctor %s\n", result.Version)

	printCheckSection(printer, "TOOLS", result.Tools, quiet)
	printCheckSection(printer, "CONFIG", result.Config, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet {
		hasNonPass := false
		for _, check := range checks {
			if check.Status != checkPass {
				hasNonPass = true
				break
			}
		}
		if !hasNonPass {
			return
		}
	}

	printer.Println()
	printer.Println(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}
		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     -> %s\n", check.Hint)
		}
	}
}

// statusIcon returns the icon for a check status.
func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}
