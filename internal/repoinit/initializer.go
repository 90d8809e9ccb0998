package repoinit

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/git"
	"github.com/gorewood/slashkit/internal/github"
	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/templates"
)

// Reporter receives progress while a run executes.
type Reporter interface {
	Phase(phase Phase)
	// Step reports a finished step with one of the output.Step* statuses.
	Step(status, name, detail string)
	Warn(warning *Error)
}

type nopReporter struct{}

func (nopReporter) Phase(Phase)                 {}
func (nopReporter) Step(string, string, string) {}
func (nopReporter) Warn(*Error)                 {}

// Outcome summarizes a run. It is returned alongside a fatal error too, so
// callers can show what was rolled back.
type Outcome struct {
	RunID      string   `json:"run_id,omitempty"`
	DryRun     bool     `json:"dry_run"`
	Plan       Plan     `json:"plan"`
	Directory  string   `json:"directory,omitempty"`
	URL        string   `json:"url,omitempty"`
	ProjectURL string   `json:"project_url,omitempty"`
	Files      []string `json:"files,omitempty"`
	Pushed     bool     `json:"pushed"`
	Warnings   []*Error `json:"warnings,omitempty"`
	State      State    `json:"state"`
}

// Initializer runs the bootstrap state machine.
type Initializer struct {
	validator *Validator
	git       *git.Client
	gh        *github.Client
	templates *templates.Provider
	reporter  Reporter
	now       func() time.Time
	newID     func() string
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithReporter streams progress to r.
func WithReporter(r Reporter) Option {
	return func(in *Initializer) { in.reporter = r }
}

// WithTemplates replaces the template provider.
func WithTemplates(p *templates.Provider) Option {
	return func(in *Initializer) { in.templates = p }
}

// WithClock sets the time source used for license years.
func WithClock(now func() time.Time) Option {
	return func(in *Initializer) { in.now = now }
}

// New creates an Initializer whose git and gh calls go through runner.
func New(runner gateway.Runner, opts ...Option) *Initializer {
	in := &Initializer{
		validator: NewValidator(runner),
		git:       git.New(runner),
		gh:        github.New(runner),
		templates: templates.Builtin(),
		reporter:  nopReporter{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// run carries per-execution values through the steps.
type run struct {
	req     Request
	plan    Plan
	state   *State
	outcome *Outcome
}

func (r *run) fullName() string {
	return r.state.FullName(r.req.Name)
}

// Run bootstraps the repository described by req. A dry run returns the plan
// without touching the filesystem or running any command.
//
// The working directory is restored before Run returns, whatever happens.
func (in *Initializer) Run(ctx context.Context, req Request) (*Outcome, error) {
	req, err := req.Normalized()
	if err != nil {
		return nil, err
	}
	plan := Project(req)
	if req.DryRun {
		return &Outcome{DryRun: true, Plan: plan, State: State{Phase: PhaseDone}}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, &Error{Kind: KindWorkspace, Phase: PhaseStart, Op: "read working directory", Err: err}
	}
	state := &State{RunID: in.newID(), OriginalDir: cwd, Phase: PhaseStart}
	r := &run{req: req, plan: plan, state: state, outcome: &Outcome{RunID: state.RunID, Plan: plan}}
	defer func() {
		_ = os.Chdir(state.OriginalDir)
		r.outcome.State = *state
	}()

	err = in.execute(ctx, r)
	if err == nil {
		in.enter(r, PhaseDone)
		return r.outcome, nil
	}

	if state.Phase.mutating() {
		in.enter(r, PhaseRollingBack)
		in.rollback(ctx, r)
	}
	in.enter(r, PhaseFailed)
	return r.outcome, err
}

func (in *Initializer) execute(ctx context.Context, r *run) error {
	in.enter(r, PhaseValidating)
	login, _, err := in.validator.Check(ctx, r.req.CreateWebsite)
	if err != nil {
		return err
	}
	r.state.Owner = login
	in.reporter.Step(output.StepOK, "Prerequisites", "signed in as "+login)

	steps := []struct {
		phase Phase
		fn    func(context.Context, *run) error
	}{
		{PhaseBuilding, in.build},
		{PhaseRemoteCreating, in.createRemote},
		{PhaseConfiguring, in.configure},
		{PhasePublishing, in.publish},
	}
	for _, step := range steps {
		in.enter(r, step.phase)
		if err := ctx.Err(); err != nil {
			return &Error{Kind: fatalKindFor(step.phase), Phase: step.phase, Op: "interrupted", Err: err}
		}
		if err := step.fn(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// fatalKindFor is the kind reported when a run is canceled between steps.
func fatalKindFor(phase Phase) Kind {
	switch phase {
	case PhaseBuilding:
		return KindWorkspace
	case PhasePublishing:
		return KindCommit
	default:
		return KindRemoteCreation
	}
}

func (in *Initializer) enter(r *run, phase Phase) {
	r.state.Phase = phase
	in.reporter.Phase(phase)
}

// warn records a non-fatal error and keeps going.
func (in *Initializer) warn(r *run, w *Error) {
	if w.Remediation == "" {
		w.Remediation = remediationFor(w.Err)
	}
	r.outcome.Warnings = append(r.outcome.Warnings, w)
	in.reporter.Warn(w)
}

// remediationFor derives a hint from a gateway failure, if there is one.
func remediationFor(err error) string {
	var cmdErr *gateway.CommandError
	if !errors.As(err, &cmdErr) {
		return ""
	}
	return gateway.Remediation(gateway.Classify(err), cmdErr.Command.Name)
}
