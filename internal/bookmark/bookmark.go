// Package bookmark manages project bookmarks stored in .claude/BOOKMARKS.md.
//
// Bookmarks are grouped into three categories detected from their text and
// carry a single sequence number across all categories. Removing a bookmark
// renumbers the rest so the sequence stays contiguous.
package bookmark

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Category groups bookmarks in the file.
type Category string

// Categories, in file order.
const (
	CategoryURLs     Category = "URLs"
	CategoryNotes    Category = "Notes"
	CategorySnippets Category = "Code Snippets"
)

// Categories lists every category in file order.
var Categories = []Category{CategoryURLs, CategoryNotes, CategorySnippets}

// Paths relative to the project root.
const (
	Dir      = ".claude"
	FileName = "BOOKMARKS.md"
	NotesMD  = "CLAUDE.md"
)

var (
	// ErrNotFound is returned when no bookmark has the requested index.
	ErrNotFound = errors.New("bookmark not found")
	// ErrInvalidIndex is returned for indexes below 1.
	ErrInvalidIndex = errors.New("invalid bookmark index")
	// ErrEmptyText is returned when adding a blank bookmark.
	ErrEmptyText = errors.New("bookmark text is required")
)

var (
	urlPrefixes     = []string{"http://", "https://", "www."}
	snippetPatterns = []string{"pytest", "npm", "git", "python", "bash", "`", "|", "&&", "./"}
	entryLine       = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
)

// Bookmark is one numbered entry.
type Bookmark struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Categorize picks the category for text.
func Categorize(text string) Category {
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(text, prefix) {
			return CategoryURLs
		}
	}
	for _, pattern := range snippetPatterns {
		if strings.Contains(text, pattern) {
			return CategorySnippets
		}
	}
	return CategoryNotes
}

// Parse reads bookmarks from file content in file order. Lines outside the
// known category sections are ignored.
func Parse(content string) []Bookmark {
	var (
		out     []Bookmark
		current Category
	)
	for _, line := range strings.Split(content, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			current = ""
			for _, c := range Categories {
				if strings.TrimSpace(title) == string(c) {
					current = c
				}
			}
			continue
		}
		if current == "" {
			continue
		}
		m := entryLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, Bookmark{Index: index, Text: m[2], Category: current})
	}
	return out
}

// Render produces the file content for bookmarks, grouped by category.
func Render(bookmarks []Bookmark, updated time.Time) string {
	var b strings.Builder
	b.WriteString("# Project Bookmarks\n\n")
	fmt.Fprintf(&b, "*Last updated: %s*\n\n", updated.Format(time.DateOnly))
	for _, c := range Categories {
		fmt.Fprintf(&b, "## %s\n\n", c)
		for _, bm := range bookmarks {
			if bm.Category == c {
				fmt.Fprintf(&b, "%d. %s\n", bm.Index, bm.Text)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Renumber assigns 1..n in category order, preserving order within each
// category.
func Renumber(bookmarks []Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks))
	for _, c := range Categories {
		for _, bm := range bookmarks {
			if bm.Category == c {
				bm.Index = len(out) + 1
				out = append(out, bm)
			}
		}
	}
	return out
}

// Store is the bookmark file of one project.
type Store struct {
	root string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns the store rooted at the project directory root.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{root: root, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the bookmarks file path.
func (s *Store) Path() string {
	return filepath.Join(s.root, Dir, FileName)
}

// List returns all bookmarks in file order. A missing file yields none.
func (s *Store) List() ([]Bookmark, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}
	return Parse(string(data)), nil
}

// Add categorizes text and stores it with the next free index.
func (s *Store) Add(text string) (Bookmark, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return Bookmark{}, ErrEmptyText
	}
	if err := s.ensureFiles(); err != nil {
		return Bookmark{}, err
	}
	existing, err := s.List()
	if err != nil {
		return Bookmark{}, err
	}

	next := 0
	for _, bm := range existing {
		next = max(next, bm.Index)
	}
	added := Bookmark{Index: next + 1, Text: text, Category: Categorize(text)}
	if err := s.write(append(existing, added)); err != nil {
		return Bookmark{}, err
	}
	return added, nil
}

// Remove deletes the bookmark with index and renumbers the rest. It returns
// the removed bookmark and how many remain.
func (s *Store) Remove(index int) (Bookmark, int, error) {
	if index < 1 {
		return Bookmark{}, 0, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	existing, err := s.List()
	if err != nil {
		return Bookmark{}, 0, err
	}

	kept := make([]Bookmark, 0, len(existing))
	var removed *Bookmark
	for _, bm := range existing {
		if bm.Index == index && removed == nil {
			removed = &bm
			continue
		}
		kept = append(kept, bm)
	}
	if removed == nil {
		return Bookmark{}, len(existing), fmt.Errorf("%w: #%d", ErrNotFound, index)
	}

	kept = Renumber(kept)
	if err := s.write(kept); err != nil {
		return Bookmark{}, 0, err
	}
	return *removed, len(kept), nil
}

func (s *Store) write(bookmarks []Bookmark) error {
	if err := os.WriteFile(s.Path(), []byte(Render(bookmarks, s.now())), 0o644); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}

// ensureFiles creates the bookmarks file and makes sure CLAUDE.md points at
// it.
func (s *Store) ensureFiles() error {
	if err := os.MkdirAll(filepath.Join(s.root, Dir), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", Dir, err)
	}
	if _, err := os.Stat(s.Path()); errors.Is(err, os.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return err
		}
	}
	return s.ensureReference()
}

const reference = "## Project Bookmarks\nSee `.claude/BOOKMARKS.md` for project-specific URLs and notes.\n"

func (s *Store) ensureReference() error {
	path := filepath.Join(s.root, NotesMD)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		content := fmt.Sprintf("# Project Configuration\n\n*Created: %s*\n\n%s", s.now().Format(time.DateOnly), reference)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", NotesMD, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", NotesMD, err)
	}

	content := string(data)
	if strings.Contains(content, "BOOKMARKS") {
		return nil
	}
	if err := os.WriteFile(path, []byte(content+"\n\n"+reference), 0o644); err != nil {
		return fmt.Errorf("updating %s: %w", NotesMD, err)
	}
	return nil
}
