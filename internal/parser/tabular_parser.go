package parser

import (
	"strings"
)

var (
	timestampColumns = []string{"time", "date"}
	levelColumns     = []string{"level", "severity"}
	messageColumns   = []string{"message", "msg", "text"}
)

// columnRole is the semantic field a header column feeds.
type columnRole int

const (
	roleNone columnRole = iota
	roleTimestamp
	roleLevel
	roleMessage
)

// TabularParser parses comma-delimited records. With a Header, columns are
// mapped by name; without one, positions decide.
type TabularParser struct {
	Header   []string
	Keywords []string
}

// SplitFields splits a record on commas, trims each field and strips one
// layer of surrounding double quotes. Quoted commas are not supported.
func SplitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
			p = p[1 : len(p)-1]
		}
		parts[i] = p
	}
	return parts
}

// Parse parses a single tabular record.
func (p *TabularParser) Parse(line string, id int) LogEntry {
	entry := LogEntry{
		ID:  id,
		Raw: line,
	}

	cols := SplitFields(line)
	if p.Header != nil {
		p.mapByHeader(&entry, cols)
	} else {
		mapByPosition(&entry, cols)
	}

	entry.MatchedKeywords = MatchKeywords(entry.Message, p.Keywords)
	return entry
}

// mapByHeader assigns columns by header name. When several columns map to
// the same field, the last one wins.
func (p *TabularParser) mapByHeader(entry *LogEntry, cols []string) {
	for i, name := range p.Header {
		value := ""
		if i < len(cols) {
			value = cols[i]
		}
		switch roleOf(name) {
		case roleTimestamp:
			entry.Timestamp = value
		case roleLevel:
			entry.Level = strings.ToUpper(value)
		case roleMessage:
			entry.Message = value
		}
	}
}

func mapByPosition(entry *LogEntry, cols []string) {
	if len(cols) < 3 {
		entry.Message = strings.Join(cols, " ")
		return
	}
	entry.Timestamp = cols[0]
	entry.Level = strings.ToUpper(cols[1])
	entry.Message = strings.Join(cols[2:], " ")
}

// roleOf classifies a header name. Timestamp names take precedence over
// level names, which take precedence over message names.
func roleOf(name string) columnRole {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, timestampColumns):
		return roleTimestamp
	case containsAny(n, levelColumns):
		return roleLevel
	case containsAny(n, messageColumns):
		return roleMessage
	default:
		return roleNone
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
