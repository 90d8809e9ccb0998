package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user abandons the form.
var ErrCanceled = errors.New("prompt canceled")

// Kind is the answer type of a question.
type Kind int

// Question kinds.
const (
	Text Kind = iota
	Confirm
	Choice
)

// Question is one step of a form.
type Question struct {
	Key      string
	Label    string
	Kind     Kind
	Default  string
	Choices  []string
	Validate func(string) error
}

// Answers maps question keys to answers. Confirm answers are "true" or
// "false"; Choice answers are the matching entry of Choices.
type Answers map[string]string

// Bool reports whether a Confirm answer was yes.
func (a Answers) Bool(key string) bool {
	return a[key] == "true"
}

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model for a form.
type Model struct {
	questions []Question
	current   int
	input     textinput.Model
	answers   Answers
	inputErr  string
	canceled  bool
}

// NewModel returns a form positioned at the first question.
func NewModel(questions []Question) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Focus()
	m := Model{questions: questions, input: ti, answers: Answers{}}
	m.resetInput()
	return m
}

// Answers returns the answers collected so far.
func (m Model) Answers() Answers { return m.answers }

// Done reports whether every question has been answered.
func (m Model) Done() bool { return m.current >= len(m.questions) }

// Canceled reports whether the user abandoned the form.
func (m Model) Canceled() bool { return m.canceled }

func (m *Model) resetInput() {
	m.input.SetValue("")
	if m.Done() {
		return
	}
	q := m.questions[m.current]
	m.input.Placeholder = q.Default
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.Done() {
		return tea.Quit
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.Done() {
		return m, tea.Quit
	}
	q := m.questions[m.current]
	value, err := resolve(q, m.input.Value())
	if err != nil {
		m.inputErr = err.Error()
		return m, nil
	}
	m.inputErr = ""
	m.answers[q.Key] = value
	m.current++
	m.resetInput()
	if m.Done() {
		return m, tea.Quit
	}
	return m, nil
}

// resolve turns raw input into the stored answer for q.
func resolve(q Question, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = q.Default
	}

	switch q.Kind {
	case Confirm:
		switch strings.ToLower(value) {
		case "y", "yes", "true":
			value = "true"
		case "n", "no", "false":
			value = "false"
		default:
			return "", errors.New("answer y or n")
		}
	case Choice:
		matched := ""
		for _, choice := range q.Choices {
			if strings.EqualFold(choice, value) {
				matched = choice
				break
			}
		}
		if matched == "" {
			return "", fmt.Errorf("choose one of: %s", strings.Join(q.Choices, ", "))
		}
		value = matched
	}

	if q.Validate != nil {
		if err := q.Validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	for i := 0; i < m.current && i < len(m.questions); i++ {
		q := m.questions[i]
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(q.Label+":"), answerStyle.Render(display(q, m.answers[q.Key])))
	}
	if m.Done() || m.canceled {
		return b.String()
	}

	q := m.questions[m.current]
	fmt.Fprintf(&b, "%s%s %s\n", labelStyle.Render(q.Label), hintStyle.Render(hint(q)), m.input.View())
	if m.inputErr != "" {
		b.WriteString(errStyle.Render("  "+m.inputErr) + "\n")
	}
	return b.String()
}

func hint(q Question) string {
	switch q.Kind {
	case Confirm:
		if strings.EqualFold(q.Default, "y") || strings.EqualFold(q.Default, "yes") {
			return " [Y/n]"
		}
		return " [y/N]"
	case Choice:
		return " (" + strings.Join(q.Choices, "/") + ")"
	}
	return ""
}

func display(q Question, value string) string {
	if q.Kind != Confirm {
		return value
	}
	if value == "true" {
		return "yes"
	}
	return "no"
}

// Ask runs the form on in/out and returns the answers.
func Ask(ctx context.Context, in io.Reader, out io.Writer, questions []Question) (Answers, error) {
	program := tea.NewProgram(NewModel(questions),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrCanceled
		}
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok || m.Canceled() || !m.Done() {
		return nil, ErrCanceled
	}
	return m.Answers(), nil
}
