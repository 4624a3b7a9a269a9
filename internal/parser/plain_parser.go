package parser

import (
	"strings"
)

// PlainParser parses free-text log lines.
type PlainParser struct {
	Keywords []string
}

// Parse parses a plain text log line. A blank line yields an entry with an
// empty message and no matches; callers are expected to skip it.
func (p *PlainParser) Parse(line string, id int) LogEntry {
	entry := LogEntry{
		ID:              id,
		Raw:             line,
		MatchedKeywords: []string{},
	}
	if strings.TrimSpace(line) == "" {
		return entry
	}

	entry.Timestamp, entry.Level, entry.Message = Extract(line)
	entry.MatchedKeywords = MatchKeywords(entry.Message, p.Keywords)
	return entry
}
