// Package git provides Git operations via the process gateway for slashkit.
//
// A Client wraps a gateway.Runner, so production code shells out to the git
// executable while tests substitute a scripted gatewaytest.Fake.
//
//	client := git.Default()
//	if err := client.Init(ctx, "main"); err != nil {
//	    return err
//	}
//	_ = client.AddRemote(ctx, "origin", url)
//
// # Error Handling
//
// Failures come back as *output.ExitError with ExitSystemError. The underlying
// *gateway.CommandError stays reachable through errors.As, so callers can run
// gateway.Classify on it to pick a remediation hint.
package git
