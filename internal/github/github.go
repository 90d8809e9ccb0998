// Package github drives the gh CLI through the process gateway.
//
// Nothing here talks to the GitHub API directly; every call is an argument
// list handed to gh, and only small pieces of its output are parsed.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gorewood/slashkit/internal/gateway"
)

// Client wraps gh invocations.
type Client struct {
	runner gateway.Runner
}

// New creates a Client backed by runner.
func New(runner gateway.Runner) *Client {
	return &Client{runner: runner}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, gateway.Command{Name: "gh", Args: args})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

func (c *Client) runInput(ctx context.Context, stdin []byte, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, gateway.Command{Name: "gh", Args: args, Stdin: stdin})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

var versionPattern = regexp.MustCompile(`gh version (\d+\.\d+\.\d+)`)

// Version returns the installed gh version.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	match := versionPattern.FindStringSubmatch(out)
	if match == nil {
		return "", fmt.Errorf("unrecognized gh version output: %q", out)
	}
	return match[1], nil
}

// AuthStatus succeeds when gh holds a valid login for github.com.
func (c *Client) AuthStatus(ctx context.Context) error {
	_, err := c.run(ctx, "auth", "status")
	return err
}

// ErrNoLogin is returned when the API answers but yields no login.
var ErrNoLogin = errors.New("gh api user returned an empty login")

// CurrentUser returns the authenticated user's login.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	login, err := c.run(ctx, "api", "user", "--jq", ".login")
	if err != nil {
		return "", err
	}
	if login == "" {
		return "", ErrNoLogin
	}
	return login, nil
}

// RepoSpec describes a repository to create.
type RepoSpec struct {
	Name        string
	Description string
	Private     bool
}

// CreateRepo creates an empty remote repository owned by the current user.
func (c *Client) CreateRepo(ctx context.Context, spec RepoSpec) error {
	args := []string{"repo", "create", spec.Name}
	if spec.Private {
		args = append(args, "--private")
	} else {
		args = append(args, "--public")
	}
	if spec.Description != "" {
		args = append(args, "--description", spec.Description)
	}
	_, err := c.run(ctx, args...)
	return err
}

// DeleteRepo deletes owner/name without confirmation. Needs the delete_repo scope.
func (c *Client) DeleteRepo(ctx context.Context, fullName string) error {
	_, err := c.run(ctx, "repo", "delete", fullName, "--yes")
	return err
}

// AddTopics adds topics to owner/name.
func (c *Client) AddTopics(ctx context.Context, fullName string, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	args := []string{"repo", "edit", fullName}
	for _, topic := range topics {
		args = append(args, "--add-topic", topic)
	}
	_, err := c.run(ctx, args...)
	return err
}

// EnableAutoMerge turns on auto-merge and head-branch deletion for owner/name.
func (c *Client) EnableAutoMerge(ctx context.Context, fullName string) error {
	_, err := c.run(ctx, "repo", "edit", fullName, "--enable-auto-merge", "--delete-branch-on-merge")
	return err
}

// Project identifies a created project board.
type Project struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	ID     string `json:"id"`
}

// CreateProject creates a user-owned project board.
func (c *Client) CreateProject(ctx context.Context, title string) (Project, error) {
	out, err := c.run(ctx, "project", "create", "--owner", "@me", "--title", title, "--format", "json")
	if err != nil {
		return Project{}, err
	}
	var project Project
	if err := json.Unmarshal([]byte(out), &project); err != nil {
		return Project{}, fmt.Errorf("parsing gh project create output: %w", err)
	}
	if project.Number == 0 {
		return Project{}, fmt.Errorf("gh project create returned no project number: %q", out)
	}
	return project, nil
}

// LinkProject links a project board to owner/name.
func (c *Client) LinkProject(ctx context.Context, number int, fullName string) error {
	_, err := c.run(ctx, "project", "link", strconv.Itoa(number), "--owner", "@me", "--repo", fullName)
	return err
}

// FieldType is a project field data type accepted by gh project field-create.
type FieldType string

// Field types.
const (
	FieldText         FieldType = "TEXT"
	FieldSingleSelect FieldType = "SINGLE_SELECT"
	FieldDate         FieldType = "DATE"
	FieldNumber       FieldType = "NUMBER"
)

// Field is a custom project field.
type Field struct {
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// CreateProjectField adds a custom field to a project board.
func (c *Client) CreateProjectField(ctx context.Context, number int, field Field) error {
	args := []string{
		"project", "field-create", strconv.Itoa(number),
		"--owner", "@me",
		"--name", field.Name,
		"--data-type", string(field.Type),
	}
	for _, opt := range field.Options {
		args = append(args, "--single-select-options", opt)
	}
	_, err := c.run(ctx, args...)
	return err
}

// Protection is the branch protection policy applied after the first push.
type Protection struct {
	RequiredReviews      int      `json:"required_reviews"`
	DismissStaleReviews  bool     `json:"dismiss_stale_reviews"`
	StrictStatusChecks   bool     `json:"strict_status_checks"`
	EnforceAdmins        bool     `json:"enforce_admins"`
	AllowForcePushes     bool     `json:"allow_force_pushes"`
	AllowDeletions       bool     `json:"allow_deletions"`
	RequiredStatusChecks []string `json:"required_status_checks,omitempty"`
}

// DefaultProtection requires one approving review and blocks force pushes.
func DefaultProtection() Protection {
	return Protection{
		RequiredReviews:     1,
		DismissStaleReviews: true,
		StrictStatusChecks:  true,
	}
}

// Body renders the REST payload for PUT /repos/{owner}/{repo}/branches/{branch}/protection.
func (p Protection) Body() ([]byte, error) {
	contexts := p.RequiredStatusChecks
	if contexts == nil {
		contexts = []string{}
	}
	payload := map[string]any{
		"required_status_checks": map[string]any{
			"strict":   p.StrictStatusChecks,
			"contexts": contexts,
		},
		"enforce_admins": p.EnforceAdmins,
		"required_pull_request_reviews": map[string]any{
			"dismiss_stale_reviews":           p.DismissStaleReviews,
			"required_approving_review_count": p.RequiredReviews,
		},
		"restrictions":       nil,
		"allow_force_pushes": p.AllowForcePushes,
		"allow_deletions":    p.AllowDeletions,
	}
	return json.Marshal(payload)
}

// ProtectBranch applies protection to branch of owner/name.
func (c *Client) ProtectBranch(ctx context.Context, fullName, branch string, protection Protection) error {
	body, err := protection.Body()
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("repos/%s/branches/%s/protection", fullName, branch)
	_, err = c.runInput(ctx, body,
		"api", "--method", "PUT", endpoint,
		"-H", "Accept: application/vnd.github+json",
		"--input", "-")
	return err
}
