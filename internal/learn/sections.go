package learn

import (
	"strings"
)

// MaxSections bounds how many headings are offered for selection.
const MaxSections = 20

// Section is a markdown heading in a notes file.
type Section struct {
	Line   int    `json:"line"`
	Level  int    `json:"level"`
	Header string `json:"header"`
	Title  string `json:"title"`
}

// ParseSections returns the headings of content in order, at most limit of
// them (limit <= 0 means no limit). Lines inside fenced code blocks are
// ignored.
func ParseSections(content string, limit int) []Section {
	var sections []Section
	inFence := false
	for i, line := range splitLines(content) {
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
		sections = append(sections, Section{
			Line:   i + 1,
			Level:  level,
			Header: strings.TrimSpace(trimmed),
			Title:  strings.TrimSpace(trimmed[level:]),
		})
		if limit > 0 && len(sections) >= limit {
			break
		}
	}
	return sections
}

// sectionEnd returns the index of the first heading line after start, or
// len(lines) when the section runs to the end of the file.
func sectionEnd(lines []string, start int) int {
	inFence := false
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "```") || strings.HasPrefix(lines[i], "~~~") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(lines[i], "#") {
			return i
		}
	}
	return len(lines)
}

// SectionBody returns the text of the section starting at the 1-based line,
// heading included.
func SectionBody(content string, line int) string {
	lines := splitLines(content)
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.Join(lines[line-1:sectionEnd(lines, line-1)], "")
}

// splitLines splits content keeping line terminators, so joining the result
// reproduces content exactly.
func splitLines(content string) []string {
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
