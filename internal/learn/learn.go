package learn

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects where a learning entry is placed.
type Mode string

// Integration modes.
const (
	ModeAppend Mode = "append"
	ModeInsert Mode = "insert"
	ModeNew    Mode = "new"
)

// Modes lists the integration modes in presentation order.
var Modes = []Mode{ModeAppend, ModeInsert, ModeNew}

// Time formats for entry headings and backup file suffixes.
const (
	TimestampFormat = "2006-01-02 15:04:05"
	backupFormat    = "20060102-150405"
)

const defaultApplication = "This insight should be applied to future similar scenarios to improve efficiency and outcomes."

var (
	// ErrNotFound is returned when the notes file does not exist.
	ErrNotFound = errors.New("notes file not found")
	// ErrNoSection is returned when a target line is not a heading.
	ErrNoSection = errors.New("no section at line")
	// ErrEmptyLearning is returned for an entry with no learning text.
	ErrEmptyLearning = errors.New("learning text is required")
)

// DefaultPath returns ~/.claude/CLAUDE.md, or "" when the home directory is
// unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "CLAUDE.md")
}

// Entry is a single learning to integrate.
type Entry struct {
	Context     string
	Learning    string
	Application string
}

// Format renders the entry as a "Session Learning" block stamped with at.
func (e Entry) Format(at time.Time) string {
	context := strings.TrimSpace(e.Context)
	if context == "" {
		context = "Current session"
	}
	application := strings.TrimSpace(e.Application)
	if application == "" {
		application = defaultApplication
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Session Learning - %s\n\n", at.Format(TimestampFormat))
	fmt.Fprintf(&b, "**Context**: %s\n\n", context)
	fmt.Fprintf(&b, "**Learning**: %s\n\n", strings.TrimSpace(e.Learning))
	fmt.Fprintf(&b, "**Application**: %s\n", application)
	return b.String()
}

// Target identifies where an entry goes. Line is the 1-based heading line for
// ModeAppend and ModeInsert; Name is the heading text for ModeNew.
type Target struct {
	Mode Mode
	Line int
	Name string
}

// Integrate places block into content at target and returns the new content.
func Integrate(content string, target Target, block string) (string, error) {
	switch target.Mode {
	case ModeNew:
		name := strings.TrimSpace(target.Name)
		if name == "" {
			return "", errors.New("new section name is required")
		}
		head := strings.TrimRight(content, "\n")
		if head != "" {
			head += "\n\n"
		}
		return head + "## " + name + "\n\n" + block, nil
	case ModeAppend, ModeInsert:
	default:
		return "", fmt.Errorf("unknown integration mode %q", target.Mode)
	}

	lines := splitLines(content)
	idx := target.Line - 1
	if idx < 0 || idx >= len(lines) || !strings.HasPrefix(lines[idx], "#") {
		return "", fmt.Errorf("%w %d", ErrNoSection, target.Line)
	}

	at := idx + 1
	if target.Mode == ModeAppend {
		at = sectionEnd(lines, idx)
	}
	if at > 0 && !strings.HasSuffix(lines[at-1], "\n") {
		lines[at-1] += "\n"
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, "\n"+block+"\n")
	out = append(out, lines[at:]...)
	return strings.Join(out, ""), nil
}

// Result describes a completed integration.
type Result struct {
	Path      string `json:"path"`
	Backup    string `json:"backup"`
	Section   string `json:"section"`
	Mode      Mode   `json:"mode"`
	Timestamp string `json:"timestamp"`
}

// Notebook is a notes file on disk.
type Notebook struct {
	path string
	now  func() time.Time
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithClock overrides the time source used for stamps and backup names.
func WithClock(now func() time.Time) Option {
	return func(n *Notebook) { n.now = now }
}

// Open returns the notebook at path. The file must exist.
func Open(path string, opts ...Option) (*Notebook, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path given", ErrNotFound)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	n := &Notebook{path: path, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Path returns the notebook's file path.
func (n *Notebook) Path() string { return n.path }

// Read returns the current content.
func (n *Notebook) Read() (string, error) {
	data, err := os.ReadFile(n.path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", n.path, err)
	}
	return string(data), nil
}

// Sections returns the first MaxSections headings.
func (n *Notebook) Sections() ([]Section, error) {
	content, err := n.Read()
	if err != nil {
		return nil, err
	}
	return ParseSections(content, MaxSections), nil
}

// Backup copies the notebook to <name>.backup-YYYYMMDD-HHMMSS alongside it
// and returns the backup path.
func (n *Notebook) Backup() (string, error) {
	backup := n.path + ".backup-" + n.now().Format(backupFormat)

	src, err := os.Open(n.path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", n.path, err)
	}
	defer src.Close() //nolint:errcheck // read-only

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", n.path, err)
	}
	dst, err := os.OpenFile(backup, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return backup, nil
}

// Add backs up the notebook, then writes entry at target.
func (n *Notebook) Add(target Target, entry Entry) (*Result, error) {
	if strings.TrimSpace(entry.Learning) == "" {
		return nil, ErrEmptyLearning
	}
	content, err := n.Read()
	if err != nil {
		return nil, err
	}

	at := n.now()
	updated, err := Integrate(content, target, entry.Format(at))
	if err != nil {
		return nil, err
	}

	backup, err := n.Backup()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(n.path, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", n.path, err)
	}

	return &Result{
		Path:      n.path,
		Backup:    backup,
		Section:   sectionName(content, target),
		Mode:      target.Mode,
		Timestamp: at.Format(TimestampFormat),
	}, nil
}

func sectionName(content string, target Target) string {
	if target.Mode == ModeNew {
		return strings.TrimSpace(target.Name)
	}
	for _, s := range ParseSections(content, 0) {
		if s.Line == target.Line {
			return s.Title
		}
	}
	return ""
}
