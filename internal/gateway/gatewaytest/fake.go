// Package gatewaytest provides a scripted gateway.Runner for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gorewood/slashkit/internal/gateway"
)

type rule struct {
	prefix string
	result gateway.Result
	err    error
	hook   func(cmd gateway.Command)
}

// Call is a recorded invocation.
type Call struct {
	Command gateway.Command
	// Cwd is the process working directory at the time of the call.
	Cwd string
}

// Fake is a gateway.Runner that answers from scripted rules and records every call.
// Commands with no matching rule succeed with empty output.
type Fake struct {
	Calls []Call
	rules []rule
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{}
}

// On scripts a successful response for commands whose rendered line starts with prefix.
// Later rules take precedence over earlier ones.
func (f *Fake) On(prefix, stdout string) *Fake {
	f.rules = append(f.rules, rule{prefix: prefix, result: gateway.Result{Stdout: stdout}})
	return f
}

// Fail scripts a non-zero exit with the given stderr.
func (f *Fake) Fail(prefix, stderr string) *Fake {
	f.rules = append(f.rules, rule{
		prefix: prefix,
		result: gateway.Result{ExitCode: 1, Stderr: stderr},
		err:    fmt.Errorf("exit status 1"),
	})
	return f
}

// Missing scripts every invocation of the named executable as not installed.
func (f *Fake) Missing(name string) *Fake {
	f.rules = append(f.rules, rule{
		prefix: name,
		result: gateway.Result{ExitCode: -1},
		err:    fmt.Errorf("%w: exec: %q: executable file not found in $PATH", gateway.ErrNotInstalled, name),
	})
	return f
}

// Do runs hook whenever a command matching prefix is executed.
func (f *Fake) Do(prefix string, hook func(cmd gateway.Command)) *Fake {
	f.rules = append(f.rules, rule{prefix: prefix, hook: hook})
	return f
}

// Run implements gateway.Runner.
func (f *Fake) Run(ctx context.Context, cmd gateway.Command) (gateway.Result, error) {
	cwd, _ := os.Getwd()
	f.Calls = append(f.Calls, Call{Command: cmd, Cwd: cwd})

	if err := ctx.Err(); err != nil {
		return gateway.Result{ExitCode: -1}, &gateway.CommandError{Command: cmd, Result: gateway.Result{ExitCode: -1}, Err: err}
	}

	line := cmd.String()
	for i := len(f.rules) - 1; i >= 0; i-- {
		r := f.rules[i]
		if !strings.HasPrefix(line, r.prefix) {
			continue
		}
		if r.hook != nil {
			r.hook(cmd)
			continue
		}
		if r.err != nil {
			return r.result, &gateway.CommandError{Command: cmd, Result: r.result, Err: r.err}
		}
		return r.result, nil
	}
	return gateway.Result{}, nil
}

// Called reports whether any recorded command line starts with prefix.
func (f *Fake) Called(prefix string) bool {
	return f.Count(prefix) > 0
}

// Count returns how many recorded command lines start with prefix.
func (f *Fake) Count(prefix string) int {
	n := 0
	for _, call := range f.Calls {
		if strings.HasPrefix(call.Command.String(), prefix) {
			n++
		}
	}
	return n
}

// Lines returns every recorded command line in order.
func (f *Fake) Lines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		lines = append(lines, call.Command.String())
	}
	return lines
}
