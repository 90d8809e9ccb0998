// Package git provides Git operations via the process gateway for slashkit.
package git

import (
	"context"
	"errors"
	"regexp"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/output"
)

// Client runs git subcommands through a gateway.Runner.
type Client struct {
	runner gateway.Runner
}

// New creates a Client backed by the given runner.
func New(runner gateway.Runner) *Client {
	return &Client{runner: runner}
}

// Default returns a Client that spawns real git processes.
func Default() *Client {
	return New(gateway.NewExec())
}

// Run executes a git command with the given arguments in the current directory.
// It returns trimmed stdout.
// Returns an *output.ExitError on failure; the gateway error is kept as the cause.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, gateway.Command{Name: "git", Args: args})
	if err != nil {
		if errors.Is(err, gateway.ErrNotInstalled) {
			return "", output.NewSystemErrorWithCause("git not found: ensure git is installed and in PATH", err)
		}
		return "", output.NewSystemErrorWithCause(err.Error(), err)
	}
	return res.Stdout, nil
}

var versionPattern = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)

// Version returns the installed git version, e.g. "2.43.0".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.Run(ctx, "--version")
	if err != nil {
		return "", err
	}
	match := versionPattern.FindStringSubmatch(out)
	if match == nil {
		return "", output.NewSystemError("unrecognized git version output: " + out)
	}
	return match[1], nil
}

// IsRepo checks if the current directory is inside a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.Run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the current git repository.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	root, err := c.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return root, nil
}

// Init creates a repository in the current directory whose unborn HEAD points at branch.
// symbolic-ref is used instead of --initial-branch so older git versions work too.
func (c *Client) Init(ctx context.Context, branch string) error {
	if _, err := c.Run(ctx, "init"); err != nil {
		return err
	}
	_, err := c.Run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+branch)
	return err
}

// AddRemote registers a remote.
func (c *Client) AddRemote(ctx context.Context, name, url string) error {
	_, err := c.Run(ctx, "remote", "add", name, url)
	return err
}

// AddAll stages every file in the working tree.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.Run(ctx, "add", "-A")
	return err
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.Run(ctx, "commit", "-m", message)
	return err
}

// Push pushes branch to remote and sets upstream tracking.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	_, err := c.Run(ctx, "push", "-u", remote, branch)
	return err
}

// CurrentBranch returns the name of the current branch.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := c.Run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get current branch", err)
	}
	return branch, nil
}
