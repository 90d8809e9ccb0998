package repoinit

import (
	"context"
	"fmt"

	"github.com/gorewood/slashkit/internal/github"
	"github.com/gorewood/slashkit/internal/output"
)

// "Status" is built into every board, so the custom workflow field has its own name.
var statusField = github.Field{Name: "Task Status", Type: github.FieldSingleSelect, Options: []string{"Todo", "In Progress", "Done"}}

var priorityField = github.Field{Name: "Priority", Type: github.FieldSingleSelect, Options: []string{"High", "Medium", "Low"}}

// ProjectFields returns the custom fields created for a project template.
// Iteration fields cannot be created through gh, so Sprint is free text.
func ProjectFields(t ProjectTemplate) []github.Field {
	switch t {
	case ProjectBasic:
		return []github.Field{statusField}
	case ProjectRelease:
		return []github.Field{
			statusField,
			priorityField,
			{Name: "Target Date", Type: github.FieldDate},
			{Name: "Milestone", Type: github.FieldText},
		}
	default:
		return []github.Field{
			statusField,
			priorityField,
			{Name: "Sprint", Type: github.FieldText},
		}
	}
}

// createProject creates, links and populates the project board. Every failure is a warning.
func (in *Initializer) createProject(ctx context.Context, r *run) {
	project, err := in.gh.CreateProject(ctx, r.plan.ProjectTitle)
	if err != nil {
		in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: "create project board", Err: err})
		return
	}
	r.outcome.ProjectURL = project.URL

	if err := in.gh.LinkProject(ctx, project.Number, r.fullName()); err != nil {
		in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: "link project board", Err: err})
	}

	created := 0
	for _, field := range r.plan.ProjectFields {
		if err := in.gh.CreateProjectField(ctx, project.Number, field); err != nil {
			in.warn(r, &Error{Kind: KindConfiguration, Phase: PhaseConfiguring, Op: fmt.Sprintf("create project field %q", field.Name), Err: err})
			continue
		}
		created++
	}
	in.reporter.Step(output.StepOK, "Create project board", fmt.Sprintf("#%d, %d fields", project.Number, created))
}
