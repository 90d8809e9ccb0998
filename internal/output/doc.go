// Package output provides structured output handling for the slashkit CLI.
//
// Every command writes through a Printer rather than a shared console, so
// human users and automated agents (--json) see the same information.
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//	printer.Step(output.StepOK, "Create remote", "octo/demo")
//	printer.Warn("push failed: %v", err)
//	printer.Error(err)
//
// # JSON Mode
//
//	// Success: {"message": "...", ...}
//	// Warning: {"warning": "..."}
//	// Error:   {"error": "message", "code": N, "hint": "..."}
//
// # Exit Codes
//
//	output.ExitSuccess      // 0
//	output.ExitUserError    // 1: bad args, invalid request
//	output.ExitSystemError  // 2: remote creation, commit, I/O
//	output.ExitConflict     // 3: target directory exists
//	output.ExitPrerequisite // 4: git/gh/node missing or unauthenticated
//
// Use the constructors (NewUserError, NewSystemErrorWithCause,
// NewConflictError, NewPrerequisiteError) so the exit code travels with the
// error up to main.
package output
