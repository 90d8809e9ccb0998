// Package gateway runs external command-line tools (git, gh, node) for slashkit.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command describes a single external process invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin []byte
	// Dir is the working directory. Empty means the process cwd.
	Dir string
}

// String renders the command line for messages and dry-run output.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds what a finished process produced.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands. Implementations must return a *CommandError for
// any non-zero exit or launch failure.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ErrNotInstalled is wrapped by CommandError when the executable is missing.
var ErrNotInstalled = errors.New("executable not found")

// CommandError reports a failed invocation together with its captured output.
type CommandError struct {
	Command Command
	Result  Result
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if errors.Is(e.Err, ErrNotInstalled) {
		return fmt.Sprintf("%s not found: ensure it is installed and in PATH", e.Command.Name)
	}
	msg := strings.TrimSpace(e.Result.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Result.Stdout)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command.Name, firstArg(e.Command.Args), msg)
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

// NewExec returns a Runner that spawns real processes.
func NewExec() *Exec {
	return &Exec{}
}

// Run executes the command, capturing stdout and stderr.
// Stdout is returned trimmed of surrounding whitespace.
func (e *Exec) Run(ctx context.Context, command Command) (Result, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	if command.Stdin != nil {
		cmd.Stdin = bytes.NewReader(command.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return result, nil
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		result.ExitCode = -1
		return result, &CommandError{Command: command, Result: result, Err: fmt.Errorf("%w: %w", ErrNotInstalled, err)}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return result, &CommandError{Command: command, Result: result, Err: err}
}
