package repoinit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/gateway/gatewaytest"
	"github.com/gorewood/slashkit/internal/output"
	"github.com/gorewood/slashkit/internal/templates"
)

// chdirTemp moves into a fresh temp dir for the test and returns its resolved path.
func chdirTemp(t *testing.T) string {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(orig) })

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return dir
}

// scriptedRunner answers every command a successful run makes.
func scriptedRunner() *gatewaytest.Fake {
	return gatewaytest.New().
		On("git --version", "git version 2.43.0").
		On("gh --version", "gh version 2.62.0 (2024-11-14)").
		On("gh api user", "octo").
		On("gh project create", `{"number":4,"url":"https://github.com/users/octo/projects/4"}`).
		On("node --version", "v20.11.1")
}

type recordingReporter struct {
	phases   []Phase
	steps    []string
	warnings []*Error
}

func (r *recordingReporter) Phase(p Phase) { r.phases = append(r.phases, p) }
func (r *recordingReporter) Step(status, name, detail string) {
	r.steps = append(r.steps, status+" "+name)
}
func (r *recordingReporter) Warn(w *Error) { r.warnings = append(r.warnings, w) }

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func demoRequest() Request {
	req := NewRequest("demo")
	req.License = "MIT"
	req.Gitignore = "python"
	return req
}

func TestRun_DemoScenario(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner()
	reporter := &recordingReporter{}

	outcome, err := New(fake, WithReporter(reporter)).Run(context.Background(), demoRequest())
	require.NoError(t, err)

	workspace := filepath.Join(dir, "demo")
	assert.Equal(t, []string{
		".github/dependabot.yml",
		".github/workflows/auto-version.yml",
		".github/workflows/automerge.yml",
		".github/workflows/ci.yml",
		".github/workflows/release.yml",
		".gitignore",
		"LICENSE",
		"README.md",
	}, listFiles(t, workspace))

	gitignore, err := os.ReadFile(filepath.Join(workspace, ".gitignore"))
	require.NoError(t, err)
	want, err := templates.Builtin().Render(templates.GitignoreKey("python"), templates.Data{})
	require.NoError(t, err)
	assert.Equal(t, want, string(gitignore))

	license, err := os.ReadFile(filepath.Join(workspace, "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(license), "MIT License")
	assert.Contains(t, string(license), strconv.Itoa(time.Now().Year()))
	assert.Contains(t, string(license), "octo")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, dir, cwd, "working directory must be restored")

	assert.Equal(t, "https://github.com/octo/demo", outcome.URL)
	assert.Equal(t, "https://github.com/users/octo/projects/4", outcome.ProjectURL)
	assert.True(t, outcome.Pushed)
	assert.Empty(t, outcome.Warnings)
	assert.NotEmpty(t, outcome.RunID)
	assert.Equal(t, PhaseDone, outcome.State.Phase)
	assert.True(t, outcome.State.DirCreated)
	assert.True(t, outcome.State.RemoteCreated)
	assert.Len(t, outcome.Files, 8)

	assert.Equal(t, []Phase{
		PhaseValidating, PhaseBuilding, PhaseRemoteCreating, PhaseConfiguring, PhasePublishing, PhaseDone,
	}, reporter.phases)

	assert.True(t, fake.Called("gh repo create demo --private"))
	assert.True(t, fake.Called("git remote add origin https://github.com/octo/demo.git"))
	assert.True(t, fake.Called("gh repo edit octo/demo --enable-auto-merge --delete-branch-on-merge"))
	assert.True(t, fake.Called("gh project create --owner @me --title demo Development"))
	assert.True(t, fake.Called("gh project link 4 --owner @me --repo octo/demo"))
	assert.Equal(t, 3, fake.Count("gh project field-create 4"))
	assert.True(t, fake.Called("git commit -m Initial commit"))
	assert.True(t, fake.Called("git push -u origin main"))
	assert.True(t, fake.Called("gh api --method PUT repos/octo/demo/branches/main/protection"))
	assert.False(t, fake.Called("node"), "node is only checked for websites")
	assert.False(t, fake.Called("gh repo delete"))

	for _, call := range fake.Calls {
		if strings.HasPrefix(call.Command.String(), "git init") || strings.HasPrefix(call.Command.String(), "git commit") {
			assert.Equal(t, workspace, call.Cwd, "%s must run inside the new repository", call.Command)
		}
	}
}

func TestRun_CallOrder(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner()

	req := demoRequest()
	req.CreateProject = false
	req.AutoMerge = false
	req.BranchProtection = false
	_, err := New(fake).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git --version",
		"gh --version",
		"gh auth status",
		"gh api user --jq .login",
		"git init",
		"git symbolic-ref HEAD refs/heads/main",
		"gh repo create demo --private",
		"gh api user --jq .login",
		"git remote add origin https://github.com/octo/demo.git",
		"git add -A",
		"git commit -m Initial commit",
		"git push -u origin main",
	}, fake.Lines())
}

func TestRun_DryRunMakesNoCalls(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner()

	req := NewRequest("x")
	req.CreateWebsite = true
	req.DryRun = true
	outcome, err := New(fake).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, fake.Calls)
	assert.True(t, outcome.DryRun)
	assert.Contains(t, outcome.Plan.Paths(), "docusaurus.config.js")
	assert.Empty(t, listFiles(t, dir), "dry run must not touch the filesystem")
}

func TestRun_DirectoryExists(t *testing.T) {
	dir := chdirTemp(t)
	taken := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(taken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(taken, "keep.txt"), []byte("mine"), 0o600))
	fake := scriptedRunner()

	outcome, err := New(fake).Run(context.Background(), NewRequest("taken"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindWorkspace, runErr.Kind)
	assert.ErrorIs(t, err, ErrDirExists)
	assert.Contains(t, err.Error(), taken)
	assert.Equal(t, output.ExitConflict, runErr.ExitCode())
	assert.NotZero(t, output.GetExitCode(ToExitError(err)))

	assert.False(t, fake.Called("gh repo create"), "no remote call may happen")
	assert.False(t, outcome.State.RemoteCreated)
	assert.False(t, outcome.State.DirCreated)
	assert.Equal(t, PhaseFailed, outcome.State.Phase)
	assert.FileExists(t, filepath.Join(taken, "keep.txt"), "a directory we did not create is never removed")
}

func TestRun_RemoteCreationFails(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner().Fail("gh repo create", "GraphQL: Name already exists on this account")

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindRemoteCreation, runErr.Kind)
	assert.Equal(t, output.ExitSystemError, runErr.ExitCode())
	assert.Equal(t, gateway.Remediation(gateway.ClassAlreadyExists, "gh"), runErr.Remediation)

	assert.False(t, fake.Called("gh repo delete"), "remote flag is false, nothing to delete")
	assert.NoDirExists(t, filepath.Join(dir, "demo"), "local directory is rolled back")
	assert.False(t, outcome.State.RemoteCreated)

	cwd, _ := os.Getwd()
	assert.Equal(t, dir, cwd)
}

func TestRun_CommitFailsRollsBackEverything(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner().Fail("git commit", "Author identity unknown")
	reporter := &recordingReporter{}

	outcome, err := New(fake, WithReporter(reporter)).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindCommit, runErr.Kind)

	assert.True(t, fake.Called("gh repo delete octo/demo --yes"))
	assert.NoDirExists(t, filepath.Join(dir, "demo"))
	assert.Equal(t, 1, fake.Count("gh repo delete"), "rollback runs once")
	assert.Contains(t, reporter.phases, PhaseRollingBack)
	assert.Equal(t, PhaseFailed, outcome.State.Phase)
}

func TestRun_CoreWriteFailureRollsBack(t *testing.T) {
	dir := chdirTemp(t)
	// README.md taken by a directory right after git init makes the write fail.
	fake := scriptedRunner().Do("git symbolic-ref", func(gateway.Command) {
		_ = os.MkdirAll(filepath.Join(dir, "demo", "README.md"), 0o755)
	})
	reporter := &recordingReporter{}

	outcome, err := New(fake, WithReporter(reporter)).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindWorkspace, runErr.Kind)
	assert.Equal(t, "write", runErr.Op)
	assert.Equal(t, "README.md", runErr.Path)
	assert.True(t, runErr.Kind.Fatal())

	assert.NoDirExists(t, filepath.Join(dir, "demo"), "created directory is rolled back")
	assert.False(t, fake.Called("gh repo create"), "no remote call after a workspace failure")
	assert.False(t, fake.Called("gh repo delete"))
	assert.Contains(t, reporter.phases, PhaseRollingBack)
	assert.Equal(t, PhaseFailed, outcome.State.Phase)

	cwd, _ := os.Getwd()
	assert.Equal(t, dir, cwd)
}

func TestRun_GitInitFailureRollsBack(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner().Fail("git init", "fatal: cannot mkdir .git: Permission denied")

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindWorkspace, runErr.Kind)
	assert.Equal(t, "git init", runErr.Op)
	assert.Equal(t, output.ExitSystemError, runErr.ExitCode())

	assert.NoDirExists(t, filepath.Join(dir, "demo"))
	assert.False(t, fake.Called("gh repo create"))
	assert.False(t, outcome.State.RemoteCreated)
	assert.Equal(t, PhaseFailed, outcome.State.Phase)

	cwd, _ := os.Getwd()
	assert.Equal(t, dir, cwd)
}

func TestRun_RollbackFailureIsWarning(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner().
		Fail("git remote add", "error: remote origin already exists.").
		Fail("gh repo delete", `HTTP 403: Must have admin rights to Repository. This API operation needs the "delete_repo" scope.`)

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindRemoteCreation, runErr.Kind, "original error is surfaced, not the rollback failure")
	assert.Equal(t, "git remote add", runErr.Op)

	require.Len(t, outcome.Warnings, 1)
	warning := outcome.Warnings[0]
	assert.Equal(t, KindRollback, warning.Kind)
	assert.False(t, warning.Kind.Fatal())
	assert.Contains(t, warning.Remediation, "delete_repo")
	assert.Contains(t, warning.Remediation, "gh repo delete octo/demo")
}

func TestRun_PushFailureIsWarning(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner().Fail("git push", "fatal: unable to access: Could not resolve host: github.com")

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.NoError(t, err)

	assert.False(t, outcome.Pushed)
	require.Len(t, outcome.Warnings, 2)
	assert.Equal(t, KindPublish, outcome.Warnings[0].Kind)
	assert.Contains(t, outcome.Warnings[0].Remediation, "git push -u origin main")
	assert.Equal(t, KindConfiguration, outcome.Warnings[1].Kind)
	assert.ErrorIs(t, outcome.Warnings[1], ErrNotPushed)
	assert.False(t, fake.Called("gh api --method PUT"), "protection needs the branch on the remote")
	assert.False(t, fake.Called("gh repo delete"))
}

func TestRun_ConfigurationFailuresContinue(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner().
		Fail("gh repo edit octo/demo --add-topic", "HTTP 422").
		Fail("gh project create", "your token has not been granted the required scopes: project").
		Fail("gh api --method PUT", "HTTP 403: Upgrade to GitHub Pro")

	req := NewRequest("demo")
	req.Topics = []string{"cli"}
	outcome, err := New(fake).Run(context.Background(), req)
	require.NoError(t, err)

	ops := make([]string, 0, len(outcome.Warnings))
	for _, w := range outcome.Warnings {
		assert.Equal(t, KindConfiguration, w.Kind)
		ops = append(ops, w.Op)
	}
	assert.Equal(t, []string{"add topics", "create project board", "protect branch main"}, ops)
	assert.Contains(t, outcome.Warnings[1].Remediation, "gh auth refresh")
	assert.False(t, fake.Called("gh project field-create"), "fields are skipped without a board")
	assert.True(t, outcome.Pushed)
}

func TestRun_WorkflowWriteFailureIsWarning(t *testing.T) {
	dir := chdirTemp(t)
	// A directory squatting on the file path makes the exclusive create fail.
	fake := scriptedRunner().Do("gh repo edit", func(gateway.Command) {
		_ = os.MkdirAll(filepath.Join(dir, "demo", ".github", "workflows", "release.yml"), 0o755)
	})

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.NoError(t, err)

	require.Len(t, outcome.Warnings, 1)
	assert.Equal(t, KindConfiguration, outcome.Warnings[0].Kind)
	assert.Equal(t, ".github/workflows/release.yml", outcome.Warnings[0].Path)
	assert.FileExists(t, filepath.Join(dir, "demo", ".github", "workflows", "auto-version.yml"))
}

func TestRun_PrerequisiteMissing(t *testing.T) {
	dir := chdirTemp(t)
	fake := scriptedRunner().Missing("gh")

	outcome, err := New(fake).Run(context.Background(), NewRequest("demo"))
	require.Error(t, err)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindPrerequisite, runErr.Kind)
	assert.Equal(t, output.ExitPrerequisite, runErr.ExitCode())
	assert.Contains(t, runErr.Remediation, "cli.github.com")
	assert.NoDirExists(t, filepath.Join(dir, "demo"))
	assert.Equal(t, PhaseFailed, outcome.State.Phase)

	exitErr := ToExitError(err)
	var ee *output.ExitError
	require.ErrorAs(t, exitErr, &ee)
	assert.Equal(t, runErr.Remediation, ee.Hint)
}

func TestRun_OldNodeBlocksWebsite(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner().On("node --version", "v16.20.2")

	req := NewRequest("site")
	req.CreateWebsite = true
	_, err := New(fake).Run(context.Background(), req)

	var runErr *Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, KindPrerequisite, runErr.Kind)
	assert.Contains(t, err.Error(), "older than 18")
	assert.False(t, fake.Called("gh repo create"))
}

func TestRun_WebsiteFiles(t *testing.T) {
	dir := chdirTemp(t)
	req := NewRequest("site")
	req.CreateWebsite = true
	req.ClaudeReview = true
	_, err := New(scriptedRunner(), WithClock(func() time.Time {
		return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	})).Run(context.Background(), req)
	require.NoError(t, err)

	files := listFiles(t, filepath.Join(dir, "site"))
	for _, want := range []string{
		"docusaurus.config.js", "sidebars.js", "docs/intro.md", "package.json",
		"src/css/custom.css", "src/components/HomepageFeatures/index.js",
		".github/workflows/deploy-docs.yml", ".github/workflows/pr-preview.yml",
		".github/workflows/claude-code-review.yml", ".github/workflows/claude.yml",
	} {
		assert.Contains(t, files, want)
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, "site", ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "node_modules/")
	assert.Contains(t, string(gitignore), "# Docusaurus")

	config, err := os.ReadFile(filepath.Join(dir, "site", "docusaurus.config.js"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "organizationName: 'octo'")
}

func TestRun_CanceledMidRunStillRollsBack(t *testing.T) {
	dir := chdirTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created := false
	fake := scriptedRunner().Do("gh repo create", func(gateway.Command) {
		created = true
		cancel()
	})

	_, err := New(fake).Run(ctx, NewRequest("demo"))
	require.Error(t, err)
	require.True(t, created)

	assert.Equal(t, gateway.ClassCanceled, gateway.Classify(err))
	assert.True(t, fake.Called("gh repo delete octo/demo --yes"), "rollback ignores the canceled context")
	assert.NoDirExists(t, filepath.Join(dir, "demo"))
}

func TestRun_InvalidRequest(t *testing.T) {
	chdirTemp(t)
	fake := scriptedRunner()

	outcome, err := New(fake).Run(context.Background(), NewRequest("bad name"))
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Empty(t, fake.Calls)
	assert.Equal(t, output.ExitUserError, output.GetExitCode(ToExitError(err)))
}

func TestToExitError_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, ToExitError(plain))
}

func TestKind(t *testing.T) {
	fatal := []Kind{KindInvalidRequest, KindPrerequisite, KindWorkspace, KindRemoteCreation, KindCommit}
	for _, k := range fatal {
		assert.True(t, k.Fatal(), k.String())
	}
	for _, k := range []Kind{KindConfiguration, KindPublish, KindRollback} {
		assert.False(t, k.Fatal(), k.String())
	}
	assert.Equal(t, "remote_creation", KindRemoteCreation.String())
}
