package repoinit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorewood/slashkit/internal/output"
)

// Kind classifies a run failure as fatal or warn-and-continue.
type Kind int

// Kinds.
const (
	KindInvalidRequest Kind = iota + 1
	KindPrerequisite
	KindWorkspace
	KindRemoteCreation
	KindCommit
	KindConfiguration
	KindPublish
	KindRollback
)

var kindNames = map[Kind]string{
	KindInvalidRequest: "invalid_request",
	KindPrerequisite:   "prerequisite",
	KindWorkspace:      "workspace",
	KindRemoteCreation: "remote_creation",
	KindCommit:         "commit",
	KindConfiguration:  "configuration",
	KindPublish:        "publish",
	KindRollback:       "rollback",
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Fatal reports whether errors of this kind abort the run.
func (k Kind) Fatal() bool {
	switch k {
	case KindConfiguration, KindPublish, KindRollback:
		return false
	default:
		return true
	}
}

// ErrDirExists marks a WorkspaceError caused by a pre-existing target directory.
var ErrDirExists = errors.New("directory already exists")

// Error is a fatal failure or a warning raised during a run.
type Error struct {
	Kind  Kind   `json:"kind"`
	Phase Phase  `json:"phase"`
	Op    string `json:"op"`
	// Path is the file or directory involved, if any.
	Path        string `json:"path,omitempty"`
	Remediation string `json:"remediation,omitempty"`
	Err         error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON includes the rendered message alongside the structured fields.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return json.Marshal(struct {
		*plain
		Message string `json:"message"`
	}{plain: (*plain)(e), Message: e.Error()})
}

// ExitCode maps the error to a CLI exit code.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindInvalidRequest:
		return output.ExitUserError
	case KindPrerequisite:
		return output.ExitPrerequisite
	case KindWorkspace:
		if errors.Is(e.Err, ErrDirExists) {
			return output.ExitConflict
		}
		return output.ExitSystemError
	default:
		return output.ExitSystemError
	}
}

// ToExitError converts a run error into an *output.ExitError carrying the
// matching exit code and remediation hint. Other errors pass through.
func ToExitError(err error) error {
	var runErr *Error
	if !errors.As(err, &runErr) {
		return err
	}
	return &output.ExitError{
		Code:    runErr.ExitCode(),
		Message: runErr.Error(),
		Hint:    runErr.Remediation,
		Cause:   err,
	}
}
