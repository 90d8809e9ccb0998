// Package output provides structured output and error handling for the slashkit CLI.
package output

import "errors"

// Exit codes:
// 0 = Success
// 1 = User error (bad args, invalid request)
// 2 = System error (remote creation, commit, I/O)
// 3 = Conflict (target directory exists)
// 4 = Prerequisite missing (tool not installed, not authenticated)
const (
	ExitSuccess      = 0
	ExitUserError    = 1
	ExitSystemError  = 2
	ExitConflict     = 3
	ExitPrerequisite = 4
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	// Hint is an optional remediation shown after the message.
	Hint  string
	Cause error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// WithHint attaches a remediation hint and returns the error for chaining.
func (e *ExitError) WithHint(hint string) *ExitError {
	e.Hint = hint
	return e
}

// NewUserError creates an error for user-caused issues (exit code 1).
// Use for: bad arguments, invalid names, unknown template identifiers.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewUserErrorWithCause creates a user error wrapping an underlying cause.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
		Cause:   cause,
	}
}

// NewSystemError creates an error for system failures (exit code 2).
// Use for: git/gh operation failures, I/O errors.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewConflictError creates an error for conflict situations (exit code 3).
// Use for: target directory already exists.
func NewConflictError(message string) *ExitError {
	return &ExitError{
		Code:    ExitConflict,
		Message: message,
	}
}

// NewPrerequisiteError creates an error for a missing or unusable tool (exit code 4).
func NewPrerequisiteError(message, hint string) *ExitError {
	return &ExitError{
		Code:    ExitPrerequisite,
		Message: message,
		Hint:    hint,
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to user error for untyped errors
	return ExitUserError
}
