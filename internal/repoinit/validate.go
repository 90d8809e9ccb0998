package repoinit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/git"
	"github.com/gorewood/slashkit/internal/github"
)

const minNodeMajor = 18

// ValidationResult is the outcome of one prerequisite check.
type ValidationResult struct {
	Tool        string `json:"tool"`
	Check       string `json:"check"`
	OK          bool   `json:"ok"`
	Version     string `json:"version,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// Validator checks that the external tools a run needs are usable.
type Validator struct {
	runner gateway.Runner
	git    *git.Client
	gh     *github.Client
}

// NewValidator creates a Validator over runner.
func NewValidator(runner gateway.Runner) *Validator {
	return &Validator{runner: runner, git: git.New(runner), gh: github.New(runner)}
}

type check func(ctx context.Context) ValidationResult

func (v *Validator) checks(needNode bool) []check {
	checks := []check{v.checkGit, v.checkGH, v.checkAuth, v.checkAPI}
	if needNode {
		checks = append(checks, v.checkNode)
	}
	return checks
}

// Check runs the prerequisite checks in order and stops at the first
// failure, which is returned as a KindPrerequisite *Error. On success it
// returns the authenticated login.
func (v *Validator) Check(ctx context.Context, needNode bool) (string, []ValidationResult, error) {
	var results []ValidationResult
	var login string
	for _, run := range v.checks(needNode) {
		res := run(ctx)
		results = append(results, res)
		if !res.OK {
			return "", results, &Error{
				Kind:        KindPrerequisite,
				Phase:       PhaseValidating,
				Op:          res.Check,
				Remediation: res.Remediation,
				Err:         errors.New(res.Detail),
			}
		}
		if res.Check == checkAPIName {
			login = res.Detail
		}
	}
	return login, results, nil
}

// CheckAll runs every check without stopping.
func (v *Validator) CheckAll(ctx context.Context, needNode bool) []ValidationResult {
	var results []ValidationResult
	for _, run := range v.checks(needNode) {
		results = append(results, run(ctx))
	}
	return results
}

const checkAPIName = "github api"

func failed(tool, name string, err error) ValidationResult {
	class := gateway.Classify(err)
	return ValidationResult{
		Tool:        tool,
		Check:       name,
		Detail:      err.Error(),
		Remediation: gateway.Remediation(class, tool),
	}
}

func (v *Validator) checkGit(ctx context.Context) ValidationResult {
	version, err := v.git.Version(ctx)
	if err != nil {
		return failed("git", "git installed", err)
	}
	return ValidationResult{Tool: "git", Check: "git installed", OK: true, Version: version}
}

func (v *Validator) checkGH(ctx context.Context) ValidationResult {
	version, err := v.gh.Version(ctx)
	if err != nil {
		return failed("gh", "gh installed", err)
	}
	return ValidationResult{Tool: "gh", Check: "gh installed", OK: true, Version: version}
}

func (v *Validator) checkAuth(ctx context.Context) ValidationResult {
	if err := v.gh.AuthStatus(ctx); err != nil {
		res := failed("gh", "gh authenticated", err)
		if gateway.Classify(err) == gateway.ClassFailed {
			res.Remediation = gateway.Remediation(gateway.ClassUnauthenticated, "gh")
		}
		return res
	}
	return ValidationResult{Tool: "gh", Check: "gh authenticated", OK: true}
}

func (v *Validator) checkAPI(ctx context.Context) ValidationResult {
	login, err := v.gh.CurrentUser(ctx)
	if err != nil {
		return failed("gh", checkAPIName, err)
	}
	return ValidationResult{Tool: "gh", Check: checkAPIName, OK: true, Detail: login}
}

func (v *Validator) checkNode(ctx context.Context) ValidationResult {
	const name = "node >= 18"
	res, err := v.runner.Run(ctx, gateway.Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return failed("node", name, err)
	}
	raw := strings.TrimSpace(res.Stdout)
	version, err := semver.NewVersion(raw)
	if err != nil {
		return ValidationResult{
			Tool:        "node",
			Check:       name,
			Detail:      fmt.Sprintf("cannot parse node version %q", raw),
			Remediation: gateway.Remediation(gateway.ClassNotInstalled, "node"),
		}
	}
	if version.Major() < minNodeMajor {
		return ValidationResult{
			Tool:        "node",
			Check:       name,
			Version:     version.String(),
			Detail:      fmt.Sprintf("node %s is older than %d", version, minNodeMajor),
			Remediation: fmt.Sprintf("Install Node.js %d or newer from https://nodejs.org", minNodeMajor),
		}
	}
	return ValidationResult{Tool: "node", Check: name, OK: true, Version: version.String()}
}
