// Package analysis re-evaluates and queries an entry collection. Every
// function is pure: inputs are never modified.
package analysis

import (
	"strings"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

// DefaultKeywords is the keyword list used when none is configured.
var DefaultKeywords = []string{
	"error", "fail", "denied", "unauthorized", "exception", "critical", "fatal", "timeout",
}

// NormalizeKeywords trims keywords, drops empty ones and removes
// case-insensitive duplicates, keeping the first occurrence.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		k := strings.ToLower(kw)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// Reclassify returns a new collection with every entry's keyword matches
// recomputed against keywords. Order, length and all other fields are kept.
func Reclassify(entries []parser.LogEntry, keywords []string) []parser.LogEntry {
	kws := append([]string(nil), keywords...)
	out := make([]parser.LogEntry, len(entries))
	for i, e := range entries {
		out[i] = e.WithKeywords(kws)
	}
	return out
}

// Filter returns the entries whose message, level or timestamp contains
// term, case-insensitively. An empty term returns every entry.
func Filter(entries []parser.LogEntry, term string) []parser.LogEntry {
	if term == "" {
		return append([]parser.LogEntry(nil), entries...)
	}
	t := strings.ToLower(term)
	var out []parser.LogEntry
	for _, e := range entries {
		if matchesTerm(e, t) {
			out = append(out, e)
		}
	}
	return out
}

func matchesTerm(e parser.LogEntry, lowered string) bool {
	return strings.Contains(strings.ToLower(e.Message), lowered) ||
		strings.Contains(strings.ToLower(e.Level), lowered) ||
		strings.Contains(strings.ToLower(e.Timestamp), lowered)
}

// FilterSuspicious returns only the flagged entries.
func FilterSuspicious(entries []parser.LogEntry) []parser.LogEntry {
	var out []parser.LogEntry
	for _, e := range entries {
		if e.IsSuspicious() {
			out = append(out, e)
		}
	}
	return out
}
