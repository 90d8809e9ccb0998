package learn

import (
	"strings"
)

// topicKeywords maps a keyword found in learning text to the heading words it
// points at.
var topicKeywords = map[string][]string{
	"test":      {"test"},
	"debug":     {"debug", "test"},
	"workflow":  {"workflow"},
	"git":       {"git", "workflow"},
	"lint":      {"lint", "workflow"},
	"strategic": {"strateg", "tool"},
	"principle": {"principle"},
	"tool":      {"tool"},
}

// keywordOrder keeps suggestion order stable.
var keywordOrder = []string{"test", "debug", "workflow", "git", "lint", "strategic", "principle", "tool"}

// Suggest returns the titles of sections that look like a good home for
// learning, most relevant first.
func Suggest(learning string, sections []Section) []string {
	text := strings.ToLower(learning)
	seen := make(map[int]bool)
	var out []string
	for _, keyword := range keywordOrder {
		if !strings.Contains(text, keyword) {
			continue
		}
		for _, word := range topicKeywords[keyword] {
			for _, s := range sections {
				if seen[s.Line] || !strings.Contains(strings.ToLower(s.Title), word) {
					continue
				}
				seen[s.Line] = true
				out = append(out, s.Title)
			}
		}
	}
	return out
}
