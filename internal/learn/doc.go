// Package learn integrates session learnings into a markdown notes file
// (by default ~/.claude/CLAUDE.md).
//
// A notes file is treated as a flat list of headings. A learning entry is
// rendered as its own "Session Learning" block and placed either at the end
// of an existing section, right after a section's heading, or under a newly
// created section. Every write is preceded by a timestamped backup.
package learn
