package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/slashkit/internal/gateway/gatewaytest"
	"github.com/gorewood/slashkit/internal/output"
)

// successRunner answers every command a successful run makes.
func successRunner() *gatewaytest.Fake {
	return gatewaytest.New().
		On("git --version", "git version 2.43.0").
		On("gh --version", "gh version 2.62.0 (2024-11-14)").
		On("gh api user", "octo").
		On("gh project create", `{"number":7,"url":"https://github.com/users/octo/projects/7"}`).
		On("node --version", "v20.11.1")
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// planRequest extracts outcome.plan.request from github-init JSON output.
func planRequest(t *testing.T, out string) map[string]any {
	t.Helper()
	result := decodeJSON(t, out)
	outcome, ok := result["outcome"].(map[string]any)
	if !ok {
		t.Fatalf("no outcome in output: %s", out)
	}
	plan, ok := outcome["plan"].(map[string]any)
	if !ok {
		t.Fatalf("no plan in outcome: %s", out)
	}
	req, ok := plan["request"].(map[string]any)
	if !ok {
		t.Fatalf("no request in plan: %s", out)
	}
	return req
}

func TestGithubInit_DryRunRunsNothing(t *testing.T) {
	isolateConfig(t)
	dir := chdirTemp(t)
	fake := gatewaytest.New()
	useFakeRunner(t, fake)

	out, _, err := execute(t, "github-init", "demo", "--dry-run", "--json", "-l", "mit", "-g", "python")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	result := decodeJSON(t, out)
	if result["status"] != "dry_run" {
		t.Errorf("status = %v, want dry_run", result["status"])
	}
	req := planRequest(t, out)
	if req["license"] != "MIT" || req["gitignore"] != "python" {
		t.Errorf("request = %v", req)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("dry run executed commands: %v", fake.Lines())
	}
	if _, err := os.Stat(filepath.Join(dir, "demo")); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run created the project directory")
	}
}

func TestGithubInit_DryRunHuman(t *testing.T) {
	isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())

	out, _, err := execute(t, "github-init", "demo", "--dry-run", "--create-website")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Dry run: demo", "README.md", "docusaurus.config.js", "gh repo create", "No changes made"} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %q:\n%s", want, out)
		}
	}
}

func TestGithubInit_FlagsOverrideConfig(t *testing.T) {
	configDir := isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())
	writeConfig(t, configDir, `
license: MIT
gitignore: go
private: false
topics: [cli, tools]
enable_dependabot: false
description: from config
`)

	out, _, err := execute(t, "github-init", "demo", "--dry-run", "--json", "--license", "Apache-2.0", "--topics", "infra")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	req := planRequest(t, out)

	if req["license"] != "Apache-2.0" {
		t.Errorf("license = %v, want flag value Apache-2.0", req["license"])
	}
	if topics, _ := req["topics"].([]any); len(topics) != 1 || topics[0] != "infra" {
		t.Errorf("topics = %v, want flag value [infra]", req["topics"])
	}
	if req["gitignore"] != "go" {
		t.Errorf("gitignore = %v, want config value go", req["gitignore"])
	}
	if req["visibility"] != "public" {
		t.Errorf("visibility = %v, want config value public", req["visibility"])
	}
	if req["enable_dependabot"] != false {
		t.Errorf("enable_dependabot = %v, want config value false", req["enable_dependabot"])
	}
	if req["description"] != "from config" {
		t.Errorf("description = %v, want config value", req["description"])
	}
}

func TestGithubInit_ExplicitFlagBeatsConfigBool(t *testing.T) {
	configDir := isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())
	writeConfig(t, configDir, "private: false\ncreate_website: true\n")

	out, _, err := execute(t, "github-init", "demo", "--dry-run", "--json", "--private", "--create-website=false")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	req := planRequest(t, out)
	if req["visibility"] != "private" || req["create_website"] != false {
		t.Errorf("request = %v", req)
	}
}

func TestGithubInit_NegatedVisibilityFlags(t *testing.T) {
	tests := []struct {
		name   string
		config string
		flag   string
		want   string
	}{
		{"public=false overrides public config", "private: false\n", "--public=false", "private"},
		{"private=false overrides private config", "private: true\n", "--private=false", "public"},
		{"public=true", "private: true\n", "--public", "public"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir := isolateConfig(t)
			chdirTemp(t)
			useFakeRunner(t, gatewaytest.New())
			writeConfig(t, configDir, tt.config)

			out, _, err := execute(t, "github-init", "demo", "--dry-run", "--json", tt.flag)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got := planRequest(t, out)["visibility"]; got != tt.want {
				t.Errorf("visibility = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestGithubInit_ConfigWarningsAreNotFatal(t *testing.T) {
	configDir := isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())
	writeConfig(t, configDir, "colour: blue\nprivate: maybe\nlicense: MIT\n")

	out, _, err := execute(t, "github-init", "demo", "--dry-run", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	result := decodeJSON(t, out)
	warnings, _ := result["config_warnings"].([]any)
	if len(warnings) != 2 {
		t.Errorf("config_warnings = %v, want 2", result["config_warnings"])
	}
	if req := planRequest(t, out); req["license"] != "MIT" || req["visibility"] != "private" {
		t.Errorf("valid keys should still apply: %v", req)
	}
}

func TestGithubInit_MissingNameWithoutTerminal(t *testing.T) {
	isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())

	_, stderr, err := execute(t, "github-init")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Fatalf("exit code = %d, want %d (err %v)", output.GetExitCode(err), output.ExitUserError, err)
	}
	if !strings.Contains(stderr, "repository name required") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestGithubInit_MissingNameJSONKeepsConfigWarnings(t *testing.T) {
	configDir := isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, gatewaytest.New())
	writeConfig(t, configDir, "colour: blue\n")

	out, _, err := execute(t, "github-init", "--json")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Fatalf("exit code = %d, want user error", output.GetExitCode(err))
	}
	result := decodeJSON(t, out)
	if result["error"] != "repository name required" {
		t.Errorf("error = %v", result["error"])
	}
	if warnings, _ := result["config_warnings"].([]any); len(warnings) != 1 {
		t.Errorf("config_warnings = %v, want 1", result["config_warnings"])
	}
}

func TestGithubInit_InvalidRequest(t *testing.T) {
	isolateConfig(t)
	chdirTemp(t)
	fake := successRunner()
	useFakeRunner(t, fake)

	out, _, err := execute(t, "github-init", "demo", "--json", "--license", "WTFPL")
	if output.GetExitCode(err) != output.ExitUserError {
		t.Fatalf("exit code = %d, want user error", output.GetExitCode(err))
	}
	if result := decodeJSON(t, out); !strings.Contains(result["error"].(string), "license") {
		t.Errorf("error = %v", result["error"])
	}
	if len(fake.Calls) != 0 {
		t.Errorf("invalid request ran commands: %v", fake.Lines())
	}
}

func TestGithubInit_Success(t *testing.T) {
	isolateConfig(t)
	dir := chdirTemp(t)
	fake := successRunner()
	useFakeRunner(t, fake)

	out, _, err := execute(t, "github-init", "demo", "--json", "-l", "MIT", "-g", "go")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, out)
	}

	result := decodeJSON(t, out)
	if result["status"] != "created" {
		t.Errorf("status = %v", result["status"])
	}
	outcome := result["outcome"].(map[string]any)
	if outcome["url"] != "https://github.com/octo/demo" {
		t.Errorf("url = %v", outcome["url"])
	}
	for _, file := range []string{"README.md", "LICENSE", ".gitignore", ".github/workflows/ci.yml"} {
		if _, err := os.Stat(filepath.Join(dir, "demo", file)); err != nil {
			t.Errorf("missing %s: %v", file, err)
		}
	}
	if !fake.Called("gh repo create demo --private") {
		t.Errorf("repo not created privately: %v", fake.Lines())
	}
	if cwd, _ := os.Getwd(); cwd != dir {
		t.Errorf("working directory not restored: %s", cwd)
	}
}

func TestGithubInit_DirectoryExists(t *testing.T) {
	isolateConfig(t)
	dir := chdirTemp(t)
	useFakeRunner(t, successRunner())
	if err := os.Mkdir(filepath.Join(dir, "demo"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "github-init", "demo")
	if code := output.GetExitCode(err); code != output.ExitConflict {
		t.Fatalf("exit code = %d, want %d", code, output.ExitConflict)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "demo")); statErr != nil {
		t.Error("pre-existing directory must not be removed")
	}
}

func TestGithubInit_MissingPrerequisite(t *testing.T) {
	isolateConfig(t)
	chdirTemp(t)
	useFakeRunner(t, successRunner().Missing("gh"))

	_, stderr, err := execute(t, "github-init", "demo")
	if code := output.GetExitCode(err); code != output.ExitPrerequisite {
		t.Fatalf("exit code = %d, want %d", code, output.ExitPrerequisite)
	}
	if !strings.Contains(stderr, "hint:") {
		t.Errorf("stderr should carry a remediation hint: %q", stderr)
	}
}

func TestGithubInit_RemoteFailureRollsBack(t *testing.T) {
	isolateConfig(t)
	dir := chdirTemp(t)
	useFakeRunner(t, successRunner().Fail("gh repo create", "HTTP 422: name already exists on this account"))

	out, _, err := execute(t, "github-init", "demo", "--json")
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Fatalf("exit code = %d, want %d", code, output.ExitSystemError)
	}
	result := decodeJSON(t, out)
	outcome := result["outcome"].(map[string]any)
	state := outcome["state"].(map[string]any)
	if state["phase"] != "failed" {
		t.Errorf("phase = %v, want failed", state["phase"])
	}
	if _, statErr := os.Stat(filepath.Join(dir, "demo")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("created directory should be rolled back")
	}
}
