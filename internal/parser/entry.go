package parser

import "encoding/json"

// LogEntry is one normalized, classified line. Timestamp and Level are
// empty when absent.
type LogEntry struct {
	ID              int
	Timestamp       string
	Level           string
	Message         string
	MatchedKeywords []string
	Raw             string
}

// IsSuspicious reports whether the entry matched at least one keyword.
func (e LogEntry) IsSuspicious() bool {
	return len(e.MatchedKeywords) > 0
}

// HasKeyword reports whether kw is among the matched keywords.
func (e LogEntry) HasKeyword(kw string) bool {
	for _, m := range e.MatchedKeywords {
		if m == kw {
			return true
		}
	}
	return false
}

// WithKeywords returns a copy of e classified against keywords. Every other
// field is carried over unchanged.
func (e LogEntry) WithKeywords(keywords []string) LogEntry {
	e.MatchedKeywords = MatchKeywords(e.Message, keywords)
	return e
}

type entryJSON struct {
	ID              int      `json:"id"`
	Timestamp       string   `json:"timestamp,omitempty"`
	Level           string   `json:"level,omitempty"`
	Message         string   `json:"message"`
	IsSuspicious    bool     `json:"isSuspicious"`
	MatchedKeywords []string `json:"matchedKeywords"`
	RawLine         string   `json:"rawLine"`
}

// MarshalJSON encodes the entry with its derived suspicious flag.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	kws := e.MatchedKeywords
	if kws == nil {
		kws = []string{}
	}
	return json.Marshal(entryJSON{
		ID:              e.ID,
		Timestamp:       e.Timestamp,
		Level:           e.Level,
		Message:         e.Message,
		IsSuspicious:    e.IsSuspicious(),
		MatchedKeywords: kws,
		RawLine:         e.Raw,
	})
}
