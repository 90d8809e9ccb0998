package repoinit

import (
	"context"
	"os"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/output"
)

// rollback undoes what this run created. It runs at most once per run, even
// when the context is already canceled. Failures become warnings; the
// original error is what the caller sees.
func (in *Initializer) rollback(ctx context.Context, r *run) {
	ctx = context.WithoutCancel(ctx)
	state := r.state

	if err := os.Chdir(state.OriginalDir); err != nil {
		in.warn(r, &Error{Kind: KindRollback, Phase: PhaseRollingBack, Op: "restore working directory", Path: state.OriginalDir, Err: err})
	}

	if state.RemoteCreated {
		fullName := r.fullName()
		if err := in.gh.DeleteRepo(ctx, fullName); err != nil {
			in.warn(r, &Error{
				Kind: KindRollback, Phase: PhaseRollingBack, Op: "delete remote repository", Path: fullName, Err: err,
				Remediation: gateway.Remediation(gateway.ClassInsufficientScope, "gh") + ", then run: gh repo delete " + fullName,
			})
		} else {
			state.RemoteCreated = false
			in.reporter.Step(output.StepOK, "Delete remote", fullName)
		}
	}

	if state.DirCreated {
		if err := os.RemoveAll(state.WorkspaceDir); err != nil {
			in.warn(r, &Error{Kind: KindRollback, Phase: PhaseRollingBack, Op: "remove directory", Path: state.WorkspaceDir, Err: err})
		} else {
			state.DirCreated = false
			in.reporter.Step(output.StepOK, "Remove directory", state.WorkspaceDir)
		}
	}
}
