package output

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitUserError", ExitUserError, 1},
		{"ExitSystemError", ExitSystemError, 2},
		{"ExitConflict", ExitConflict, 3},
		{"ExitPrerequisite", ExitPrerequisite, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name         string
		err          *ExitError
		wantCode     int
		wantMessage  string
		wantErrorStr string
	}{
		{
			name:         "user error",
			err:          NewUserError("invalid repository name \"a b\""),
			wantCode:     ExitUserError,
			wantMessage:  "invalid repository name \"a b\"",
			wantErrorStr: "invalid repository name \"a b\"",
		},
		{
			name:         "system error",
			err:          NewSystemError("gh repo create failed"),
			wantCode:     ExitSystemError,
			wantMessage:  "gh repo create failed",
			wantErrorStr: "gh repo create failed",
		},
		{
			name:         "prerequisite error",
			err:          NewPrerequisiteError("gh is not authenticated", "gh auth login"),
			wantCode:     ExitPrerequisite,
			wantMessage:  "gh is not authenticated",
			wantErrorStr: "gh is not authenticated",
		},
		{
			name:         "conflict error",
			err:          NewConflictError("directory demo already exists"),
			wantCode:     ExitConflict,
			wantMessage:  "directory demo already exists",
			wantErrorStr: "directory demo already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMessage)
			}
			if tt.err.Error() != tt.wantErrorStr {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantErrorStr)
			}
		})
	}
}

func TestExitErrorWrapping(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewSystemErrorWithCause("git push failed", underlying)

	if err.Code != ExitSystemError {
		t.Errorf("Code = %d, want %d", err.Code, ExitSystemError)
	}

	// Test Unwrap
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}

	// Test that Error() includes the message
	if err.Error() != "git push failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "git push failed")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: ExitSuccess,
		},
		{
			name:     "ExitError user",
			err:      NewUserError("bad input"),
			expected: ExitUserError,
		},
		{
			name:     "ExitError system",
			err:      NewSystemError("git failed"),
			expected: ExitSystemError,
		},
		{
			name:     "ExitError conflict",
			err:      NewConflictError("duplicate"),
			expected: ExitConflict,
		},
		{
			name:     "ExitError prerequisite",
			err:      NewPrerequisiteError("git missing", ""),
			expected: ExitPrerequisite,
		},
		{
			name:     "wrapped ExitError",
			err:      fmt.Errorf("run: %w", NewConflictError("exists")),
			expected: ExitConflict,
		},
		{
			name:     "regular error defaults to user error",
			err:      errors.New("some error"),
			expected: ExitUserError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetExitCode(tt.err)
			if got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestExitError_WithHint(t *testing.T) {
	err := NewSystemErrorWithCause("gh repo delete failed", errors.New("exit 1")).
		WithHint("gh auth refresh -h github.com -s delete_repo")
	if err.Hint != "gh auth refresh -h github.com -s delete_repo" {
		t.Errorf("Hint = %q", err.Hint)
	}
	if err.Code != ExitSystemError {
		t.Errorf("Code = %d, want %d", err.Code, ExitSystemError)
	}
}
