package repoinit

import (
	"context"
	"errors"

	"github.com/gorewood/slashkit/internal/output"
)

const initialCommitMessage = "Initial commit"

// ErrNotPushed explains why branch protection was skipped.
var ErrNotPushed = errors.New("branch was not pushed")

// publish commits everything and pushes. Only the commit is fatal.
func (in *Initializer) publish(ctx context.Context, r *run) error {
	if err := in.git.AddAll(ctx); err != nil {
		return &Error{Kind: KindCommit, Phase: PhasePublishing, Op: "git add", Err: err, Remediation: remediationFor(err)}
	}
	if err := in.git.Commit(ctx, initialCommitMessage); err != nil {
		return &Error{
			Kind: KindCommit, Phase: PhasePublishing, Op: "git commit", Err: err,
			Remediation: "Make sure git user.name and user.email are configured",
		}
	}
	in.reporter.Step(output.StepOK, "Create initial commit", "")

	if err := in.git.Push(ctx, remoteName, r.req.DefaultBranch); err != nil {
		in.warn(r, &Error{
			Kind: KindPublish, Phase: PhasePublishing, Op: "git push", Err: err,
			Remediation: "Push manually with: git push -u origin " + r.req.DefaultBranch,
		})
	} else {
		r.state.Pushed = true
		r.outcome.Pushed = true
		in.reporter.Step(output.StepOK, "Push", remoteName+"/"+r.req.DefaultBranch)
	}

	if r.plan.Protection != nil {
		in.protect(ctx, r)
	}
	return nil
}

func (in *Initializer) protect(ctx context.Context, r *run) {
	if !r.state.Pushed {
		in.warn(r, &Error{
			Kind: KindConfiguration, Phase: PhasePublishing, Op: "protect branch " + r.req.DefaultBranch, Err: ErrNotPushed,
			Remediation: "Push the branch, then enable protection in the repository settings",
		})
		return
	}
	if err := in.gh.ProtectBranch(ctx, r.fullName(), r.req.DefaultBranch, *r.plan.Protection); err != nil {
		in.warn(r, &Error{Kind: KindConfiguration, Phase: PhasePublishing, Op: "protect branch " + r.req.DefaultBranch, Err: err})
		return
	}
	in.reporter.Step(output.StepOK, "Protect branch", r.req.DefaultBranch)
}
