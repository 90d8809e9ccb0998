package repoinit

import (
	"context"
	"fmt"

	"github.com/gorewood/slashkit/internal/github"
	"github.com/gorewood/slashkit/internal/output"
)

const remoteName = "origin"

// createRemote creates the GitHub repository and wires it up as origin.
// Everything here is fatal.
func (in *Initializer) createRemote(ctx context.Context, r *run) error {
	spec := github.RepoSpec{Name: r.req.Name, Description: r.req.Description, Private: r.req.Private()}
	if err := in.gh.CreateRepo(ctx, spec); err != nil {
		return &Error{Kind: KindRemoteCreation, Phase: PhaseRemoteCreating, Op: "gh repo create", Err: err, Remediation: remediationFor(err)}
	}
	r.state.RemoteCreated = true

	owner, err := in.gh.CurrentUser(ctx)
	if err != nil {
		return &Error{Kind: KindRemoteCreation, Phase: PhaseRemoteCreating, Op: "resolve repository owner", Err: err, Remediation: remediationFor(err)}
	}
	r.state.Owner = owner
	r.outcome.URL = "https://github.com/" + r.fullName()
	in.reporter.Step(output.StepOK, "Create remote", r.fullName()+" ("+string(r.req.Visibility)+")")

	url := fmt.Sprintf("https://github.com/%s.git", r.fullName())
	if err := in.git.AddRemote(ctx, remoteName, url); err != nil {
		return &Error{Kind: KindRemoteCreation, Phase: PhaseRemoteCreating, Op: "git remote add", Err: err, Remediation: remediationFor(err)}
	}
	return nil
}

// configure applies best-effort settings. Nothing here can fail the run.
func (in *Initializer) configure(ctx context.Context, r *run) error {
	if len(r.req.Topics) > 0 {
		if err := in.gh.AddTopics(ctx, r.fullName(), r.req.Topics); err != nil {
			in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: "add topics", Err: err})
		} else {
			in.reporter.Step(output.StepOK, "Add topics", fmt.Sprintf("%d topics", len(r.req.Topics)))
		}
	}

	if r.req.AutoMerge {
		if err := in.gh.EnableAutoMerge(ctx, r.fullName()); err != nil {
			in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: "enable auto-merge", Err: err})
		} else {
			in.reporter.Step(output.StepOK, "Enable auto-merge", "")
		}
	}

	if r.req.CreateProject {
		in.createProject(ctx, r)
	}

	_, automation := splitArtifacts(r.plan.Artifacts)
	written := 0
	for _, artifact := range automation {
		if err := in.writeArtifact(r, artifact); err != nil {
			in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: "write workflow", Path: artifact.Path, Err: err})
			continue
		}
		written++
	}
	if written > 0 {
		in.reporter.Step(output.StepOK, "Write automation workflows", fmt.Sprintf("%d files", written))
	}
	return nil
}
