package analysis

import (
	"github.com/clarabennett2626/logaudit/internal/parser"
)

// Stats is an aggregate view of an entry collection.
type Stats struct {
	Total         int            `json:"total"`
	Suspicious    int            `json:"suspicious"`
	KeywordCounts map[string]int `json:"keywordCounts"`
	LevelCounts   map[string]int `json:"levelCounts"`
}

// KeywordCount is one row of an ordered keyword breakdown.
type KeywordCount struct {
	Keyword string
	Count   int
}

// Aggregate counts entries, flagged entries, matches per keyword in
// keywords and entries per level. It is always computed from scratch.
func Aggregate(entries []parser.LogEntry, keywords []string) Stats {
	s := Stats{
		Total:         len(entries),
		KeywordCounts: make(map[string]int, len(keywords)),
		LevelCounts:   make(map[string]int),
	}
	var unique []string
	for _, kw := range keywords {
		if _, ok := s.KeywordCounts[kw]; !ok {
			s.KeywordCounts[kw] = 0
			unique = append(unique, kw)
		}
	}

	for _, e := range entries {
		if e.IsSuspicious() {
			s.Suspicious++
		}
		if e.Level != "" {
			s.LevelCounts[e.Level]++
		}
		for _, kw := range unique {
			if e.HasKeyword(kw) {
				s.KeywordCounts[kw]++
			}
		}
	}
	return s
}

// Ordered returns the keyword counts in keywords order.
func (s Stats) Ordered(keywords []string) []KeywordCount {
	out := make([]KeywordCount, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, KeywordCount{Keyword: kw, Count: s.KeywordCounts[kw]})
	}
	return out
}
