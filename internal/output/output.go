package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer handles formatted output to a writer.
// It supports both JSON and human-readable output modes.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	isTTY  bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Accent  lipgloss.Style
}

// NewPrinter creates a Printer writing to writer. jsonMode switches every
// method to structured output; color enables lipgloss styling.
func NewPrinter(writer io.Writer, jsonMode bool, color bool) *Printer {
	return &Printer{
		w:      writer,
		errW:   writer,
		json:   jsonMode,
		isTTY:  color,
		styles: newStyles(color),
	}
}

// newStyles returns the palette, or unstyled renderers when color is off.
func newStyles(color bool) *Styles {
	style := func(fg string, bold, faint bool) lipgloss.Style {
		st := lipgloss.NewStyle()
		if !color {
			return st
		}
		if fg != "" {
			st = st.Foreground(lipgloss.Color(fg))
		}
		return st.Bold(bold).Faint(faint)
	}
	return &Styles{
		Error:   style("9", true, false),   // red
		Success: style("10", false, false), // green
		Warning: style("11", false, false), // yellow
		Bold:    style("", true, false),
		Dim:     style("8", false, false),
		Title:   style("12", true, false), // blue
		Muted:   style("", false, true),
		Key:     style("14", false, false), // cyan
		Value:   lipgloss.NewStyle(),
		Accent:  style("13", false, false), // magenta
	}
}

// WithStderr sets a separate writer for errors and warnings in human mode.
// In JSON mode, errors still go to the main writer (structured protocol).
// Returns the printer for chaining.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// IsTTY returns true if the printer output is a TTY.
func (p *Printer) IsTTY() bool {
	return p.isTTY
}

// Error outputs an error.
// For JSON mode, outputs {"error": "...", "code": N[, "hint": "..."]} to stdout.
// For human mode, outputs a styled error message and any hint to stderr (if set).
func (p *Printer) Error(err error) {
	exitErr := &ExitError{}
	ok := errors.As(err, &exitErr)
	if !ok {
		exitErr = &ExitError{
			Code:    ExitUserError,
			Message: err.Error(),
		}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSONWithHint(exitErr.Message, exitErr.Code, exitErr.Hint)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}

	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), exitErr.Message))
	if exitErr.Hint != "" {
		mustWrite(fmt.Fprintf(p.errW, "  %s %s\n", p.styles.Dim.Render("hint:"), exitErr.Hint))
	}
}

// Warn outputs a warning message.
// For JSON mode, outputs {"warning": "..."} to stdout.
// For human mode, outputs a styled warning to stderr (if set).
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		data := map[string]any{"warning": msg}
		_ = p.writeJSON(data)
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), msg))
}

// Stderr writes a message to the error writer (for status hints when piped).
// No-op in JSON mode (structured protocol handles metadata).
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	mustWrite(fmt.Fprintf(p.errW, format, args...))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// writeJSON encodes data as JSON and writes it.
func (p *Printer) writeJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteJSON encodes any data as JSON and writes it.
// Use this for outputting structs or other types that aren't maps.
func (p *Printer) WriteJSON(data any) error {
	return p.writeJSON(data)
}

// ErrorJSON returns JSON-formatted error bytes.
// Format: {"error": "message", "code": N}
func ErrorJSON(message string, code int) []byte {
	return ErrorJSONWithHint(message, code, "")
}

// ErrorJSONWithHint is ErrorJSON with an optional "hint" key.
func ErrorJSONWithHint(message string, code int, hint string) []byte {
	data := map[string]any{
		"error": message,
		"code":  code,
	}
	if hint != "" {
		data["hint"] = hint
	}
	result, _ := json.Marshal(data)
	return result
}

// mustWrite panics if a write operation fails.
// Use this to wrap write operations that should never fail
// (e.g., writing to stdout/stderr or buffers).
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Table renders rows under bold headers, columns separated by two spaces.
// Rows shorter than headers are padded with empty cells.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	padded := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		padded = append(padded, cells)
	}

	last := len(headers) - 1
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderHeader(false).BorderColumn(false).
		Headers(headers...).
		Rows(padded...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := p.styles.Value
			if row == table.HeaderRow {
				style = p.styles.Bold
			}
			if col < last {
				style = style.PaddingRight(2)
			}
			return style
		})
	for _, line := range strings.Split(t.Render(), "\n") {
		mustWrite(fmt.Fprintln(p.w, strings.TrimRight(line, " ")))
	}
}

// Section renders a section header with underline.
// Adds a blank line before the header.
func (p *Printer) Section(title string) {
	mustWrite(fmt.Fprintln(p.w))
	mustWrite(fmt.Fprintln(p.w, p.styles.Title.Render(title)))
	// Create underline matching title length
	underline := strings.Repeat("─", len(title))
	mustWrite(fmt.Fprintln(p.w, p.styles.Muted.Render(underline)))
}

// KeyValue renders a key-value pair with styles applied.
// Format: "Key: Value"
func (p *Printer) KeyValue(key string, value string) {
	styledKey := p.styles.Key.Render(key + ":")
	styledValue := p.styles.Value.Render(value)
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", styledKey, styledValue))
}

// Step statuses understood by Printer.Step.
const (
	StepOK      = "ok"
	StepSkipped = "skipped"
	StepFailed  = "failed"
	StepWarn    = "warn"
	StepDryRun  = "dry_run"
)

// Step renders one progress line: an icon for status, the step name, and an
// optional dimmed detail.
func (p *Printer) Step(status, name, detail string) {
	line := p.stepIcon(status) + " " + name
	if detail != "" {
		line += " " + p.styles.Dim.Render("("+detail+")")
	}
	mustWrite(fmt.Fprintln(p.w, line))
}

func (p *Printer) stepIcon(status string) string {
	switch status {
	case StepOK:
		return p.styles.Success.Render("✓")
	case StepFailed:
		return p.styles.Error.Render("✗")
	case StepWarn:
		return p.styles.Warning.Render("!")
	case StepDryRun:
		return p.styles.Accent.Render("→")
	default:
		return p.styles.Dim.Render("○")
	}
}
