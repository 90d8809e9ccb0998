package repoinit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/templates"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// build creates the directory, initializes git and writes every core artifact.
func (in *Initializer) build(ctx context.Context, r *run) error {
	dir := filepath.Join(r.state.OriginalDir, r.req.Name)
	if err := os.Mkdir(dir, dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			err = ErrDirExists
		}
		return &Error{
			Kind: KindWorkspace, Phase: PhaseBuilding, Op: "create directory", Path: dir, Err: err,
			Remediation: "Choose another name or remove the existing directory",
		}
	}
	r.state.DirCreated = true
	r.state.WorkspaceDir = dir
	r.outcome.Directory = dir

	if err := os.Chdir(dir); err != nil {
		return &Error{Kind: KindWorkspace, Phase: PhaseBuilding, Op: "enter directory", Path: dir, Err: err}
	}

	if err := in.git.Init(ctx, r.req.DefaultBranch); err != nil {
		return &Error{Kind: KindWorkspace, Phase: PhaseBuilding, Op: "git init", Path: dir, Err: err, Remediation: remediationFor(err)}
	}
	in.reporter.Step(output.StepOK, "Initialize git", "branch "+r.req.DefaultBranch)

	core, _ := splitArtifacts(r.plan.Artifacts)
	for _, artifact := range core {
		if err := in.writeArtifact(r, artifact); err != nil {
			return &Error{Kind: KindWorkspace, Phase: PhaseBuilding, Op: "write", Path: artifact.Path, Err: err}
		}
	}
	in.reporter.Step(output.StepOK, "Write files", fmt.Sprintf("%d files", len(core)))
	return nil
}

func (in *Initializer) templateData(r *run) templates.Data {
	return templates.Data{
		Name:        r.req.Name,
		Description: r.req.Description,
		Owner:       r.state.Owner,
		Branch:      r.req.DefaultBranch,
		License:     r.req.License,
		Ecosystem:   templates.Ecosystem(r.req.Gitignore, r.req.CreateWebsite),
		Year:        in.now().Year(),
		Website:     r.req.CreateWebsite,
	}
}

// render joins the artifact's templates, separated by a blank line.
func (in *Initializer) render(r *run, artifact PlannedArtifact) (string, error) {
	data := in.templateData(r)
	parts := make([]string, 0, len(artifact.Templates))
	for _, key := range artifact.Templates {
		content, err := in.templates.Render(key, data)
		if err != nil {
			return "", err
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), nil
}

// writeArtifact writes one planned file under the workspace, never overwriting.
func (in *Initializer) writeArtifact(r *run, artifact PlannedArtifact) error {
	content, err := in.render(r, artifact)
	if err != nil {
		return err
	}
	path := filepath.Join(r.state.WorkspaceDir, filepath.FromSlash(artifact.Path))
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) //nolint:gosec // path is inside the new workspace
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.outcome.Files = append(r.outcome.Files, artifact.Path)
	return nil
}
