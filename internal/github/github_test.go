package github

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gorewood/slashkit/internal/gateway"
	"github.com/gorewood/slashkit/internal/gateway/gatewaytest"
)

func TestVersion(t *testing.T) {
	fake := gatewaytest.New().On("gh --version", "gh version 2.62.0 (2024-11-14)\nhttps://github.com/cli/cli/releases/tag/v2.62.0")
	got, err := New(fake).Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got != "2.62.0" {
		t.Errorf("Version() = %q, want %q", got, "2.62.0")
	}
}

func TestCurrentUser(t *testing.T) {
	tests := []struct {
		name    string
		fake    *gatewaytest.Fake
		want    string
		wantErr error
	}{
		{
			name: "login returned",
			fake: gatewaytest.New().On("gh api user", "octocat"),
			want: "octocat",
		},
		{
			name:    "empty login",
			fake:    gatewaytest.New().On("gh api user", ""),
			wantErr: ErrNoLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.fake).CurrentUser(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CurrentUser() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CurrentUser() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateRepo_Args(t *testing.T) {
	tests := []struct {
		name string
		spec RepoSpec
		want string
	}{
		{
			name: "private with description",
			spec: RepoSpec{Name: "demo", Description: "A demo", Private: true},
			want: "gh repo create demo --private --description A demo",
		},
		{
			name: "public without description",
			spec: RepoSpec{Name: "demo"},
			want: "gh repo create demo --public",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := gatewaytest.New()
			if err := New(fake).CreateRepo(context.Background(), tt.spec); err != nil {
				t.Fatalf("CreateRepo() error = %v", err)
			}
			if got := fake.Lines(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("calls = %q, want [%q]", got, tt.want)
			}
		})
	}
}

func TestCreateRepo_Failure(t *testing.T) {
	fake := gatewaytest.New().Fail("gh repo create", "GraphQL: Name already exists on this account (createRepository)")
	err := New(fake).CreateRepo(context.Background(), RepoSpec{Name: "demo", Private: true})
	if err == nil {
		t.Fatal("CreateRepo() expected error")
	}
	if gateway.Classify(err) != gateway.ClassAlreadyExists {
		t.Errorf("Classify() = %q, want %q", gateway.Classify(err), gateway.ClassAlreadyExists)
	}
}

func TestAddTopics(t *testing.T) {
	fake := gatewaytest.New()
	client := New(fake)

	if err := client.AddTopics(context.Background(), "octo/demo", nil); err != nil {
		t.Fatal(err)
	}
	if len(fake.Calls) != 0 {
		t.Errorf("no topics should make no calls, got %q", fake.Lines())
	}

	if err := client.AddTopics(context.Background(), "octo/demo", []string{"cli", "go"}); err != nil {
		t.Fatal(err)
	}
	want := "gh repo edit octo/demo --add-topic cli --add-topic go"
	if got := fake.Lines()[0]; got != want {
		t.Errorf("call = %q, want %q", got, want)
	}
}

func TestCreateProject(t *testing.T) {
	fake := gatewaytest.New().On("gh project create", `{"number":7,"url":"https://github.com/users/octo/projects/7","id":"PVT_x"}`)
	project, err := New(fake).CreateProject(context.Background(), "demo Development")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if project.Number != 7 || project.URL != "https://github.com/users/octo/projects/7" {
		t.Errorf("project = %+v", project)
	}
	want := "gh project create --owner @me --title demo Development --format json"
	if fake.Lines()[0] != want {
		t.Errorf("call = %q, want %q", fake.Lines()[0], want)
	}
}

func TestCreateProject_BadOutput(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
	}{
		{"not json", "created"},
		{"no number", `{"url":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := gatewaytest.New().On("gh project create", tt.stdout)
			if _, err := New(fake).CreateProject(context.Background(), "t"); err == nil {
				t.Error("CreateProject() expected error")
			}
		})
	}
}

func TestProjectLinkAndField(t *testing.T) {
	fake := gatewaytest.New()
	client := New(fake)
	ctx := context.Background()

	if err := client.LinkProject(ctx, 3, "octo/demo"); err != nil {
		t.Fatal(err)
	}
	field := Field{Name: "Priority", Type: FieldSingleSelect, Options: []string{"High", "Low"}}
	if err := client.CreateProjectField(ctx, 3, field); err != nil {
		t.Fatal(err)
	}

	lines := fake.Lines()
	if lines[0] != "gh project link 3 --owner @me --repo octo/demo" {
		t.Errorf("link call = %q", lines[0])
	}
	want := "gh project field-create 3 --owner @me --name Priority --data-type SINGLE_SELECT --single-select-options High --single-select-options Low"
	if lines[1] != want {
		t.Errorf("field call = %q, want %q", lines[1], want)
	}
}

func TestProtectBranch(t *testing.T) {
	fake := gatewaytest.New()
	if err := New(fake).ProtectBranch(context.Background(), "octo/demo", "main", DefaultProtection()); err != nil {
		t.Fatal(err)
	}

	call := fake.Calls[0].Command
	if !strings.HasPrefix(call.String(), "gh api --method PUT repos/octo/demo/branches/main/protection") {
		t.Errorf("call = %q", call.String())
	}

	var body map[string]any
	if err := json.Unmarshal(call.Stdin, &body); err != nil {
		t.Fatalf("stdin is not JSON: %v", err)
	}
	reviews, ok := body["required_pull_request_reviews"].(map[string]any)
	if !ok {
		t.Fatalf("missing required_pull_request_reviews: %v", body)
	}
	if reviews["required_approving_review_count"] != float64(1) {
		t.Errorf("review count = %v", reviews["required_approving_review_count"])
	}
	if body["allow_force_pushes"] != false {
		t.Errorf("allow_force_pushes = %v", body["allow_force_pushes"])
	}
	if _, present := body["restrictions"]; !present {
		t.Error("restrictions must be sent as null")
	}
}

func TestDeleteRepo(t *testing.T) {
	fake := gatewaytest.New().Fail("gh repo delete", "HTTP 403: Must have admin rights to Repository. This API operation needs the \"delete_repo\" scope.")
	err := New(fake).DeleteRepo(context.Background(), "octo/demo")
	if gateway.Classify(err) != gateway.ClassInsufficientScope {
		t.Errorf("Classify() = %q, want %q", gateway.Classify(err), gateway.ClassInsufficientScope)
	}
	if fake.Lines()[0] != "gh repo delete octo/demo --yes" {
		t.Errorf("call = %q", fake.Lines()[0])
	}
}
