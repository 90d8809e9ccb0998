package gateway

import (
	"context"
	"errors"
	"strings"
)

// Class is the closed set of failure categories a gateway error maps to.
type Class string

const (
	ClassOK                Class = "ok"
	ClassNotInstalled      Class = "not_installed"
	ClassUnauthenticated   Class = "unauthenticated"
	ClassInsufficientScope Class = "insufficient_scope"
	ClassNotFound          Class = "not_found"
	ClassAlreadyExists     Class = "already_exists"
	ClassNetwork           Class = "network"
	ClassCanceled          Class = "canceled"
	ClassFailed            Class = "failed"
)

// stderrPatterns is checked in order; the first match wins.
var stderrPatterns = []struct {
	class    Class
	patterns []string
}{
	{ClassInsufficientScope, []string{"scope", "insufficient", "must have admin rights", "resource not accessible"}},
	{ClassUnauthenticated, []string{"not logged in", "gh auth login", "authentication required", "bad credentials", "http 401"}},
	{ClassAlreadyExists, []string{"already exists", "name already exists"}},
	{ClassNotFound, []string{"not found", "http 404", "could not resolve to a repository"}},
	{ClassNetwork, []string{"could not resolve host", "connection refused", "timed out", "timeout", "network is unreachable", "tls handshake"}},
}

// Classify maps an error returned by a Runner to a Class.
// A nil error is ClassOK; errors that did not come from a Runner are ClassFailed.
func Classify(err error) Class {
	if err == nil {
		return ClassOK
	}
	if errors.Is(err, ErrNotInstalled) {
		return ClassNotInstalled
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCanceled
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return ClassFailed
	}

	text := strings.ToLower(cmdErr.Result.Stderr + "\n" + cmdErr.Result.Stdout)
	for _, group := range stderrPatterns {
		for _, pattern := range group.patterns {
			if strings.Contains(text, pattern) {
				return group.class
			}
		}
	}
	return ClassFailed
}

// Remediation returns a one-line hint for a failure class of the given tool.
// Returns an empty string when there is nothing specific to suggest.
func Remediation(class Class, tool string) string {
	switch class {
	case ClassNotInstalled:
		return installHint(tool)
	case ClassUnauthenticated:
		return "Run 'gh auth login' to authenticate the GitHub CLI"
	case ClassInsufficientScope:
		return "Run 'gh auth refresh -h github.com -s repo,project,delete_repo' to grant the missing scopes"
	case ClassNetwork:
		return "Check your network connection and that api.github.com is reachable"
	case ClassAlreadyExists:
		return "Choose a different repository name or delete the existing repository"
	case ClassCanceled:
		return "The operation was interrupted; re-run the command to try again"
	default:
		return ""
	}
}

func installHint(tool string) string {
	switch tool {
	case "git":
		return "Install git: https://git-scm.com/downloads"
	case "gh":
		return "Install the GitHub CLI: https://cli.github.com"
	case "node":
		return "Install Node.js 18 or newer: https://nodejs.org"
	default:
		return "Install " + tool + " and make sure it is in PATH"
	}
}
