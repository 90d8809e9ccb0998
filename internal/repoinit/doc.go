// Package repoinit bootstraps a repository: it validates prerequisites,
// builds the local workspace, creates the GitHub remote, applies best-effort
// configuration and publishes the first commit, rolling back on fatal errors.
//
// The same Plan drives dry runs and real runs. All git, gh and node calls go
// through a gateway.Runner, so tests drive the whole state machine with
// gatewaytest.Fake.
//
// # Tests
//
// This package's tests use testify's require and assert, as the orchestration
// tests they follow do: each run is checked against many state fields at once
// and require stops at the first broken precondition. Every other package
// tests with the standard testing package.
package repoinit
