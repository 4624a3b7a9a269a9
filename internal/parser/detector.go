// Package parser turns raw log lines and delimited records into classified
// log entries.
package parser

import (
	"path/filepath"
	"strings"
)

// Format represents the layout of an input payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatPlain
	FormatTabular
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatTabular:
		return "tabular"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name ("plain", "tabular", or the aliases "text",
// "log", "csv") to a Format.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "text", "txt", "log":
		return FormatPlain
	case "tabular", "csv":
		return FormatTabular
	default:
		return FormatUnknown
	}
}

// FormatForPath maps a file name to a Format by its extension:
// .txt and .log are plain, .csv is tabular, anything else is unknown.
func FormatForPath(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".log":
		return FormatPlain
	case ".csv":
		return FormatTabular
	default:
		return FormatUnknown
	}
}

// headerSignals are the substrings that mark the first tabular record as a
// header row.
var headerSignals = []string{"time", "level", "message"}

// DetectHeader reports whether a tabular record looks like a header row.
func DetectHeader(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, s := range headerSignals {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// Parser can parse a single line into a LogEntry. id is the line's index
// in the source text.
type Parser interface {
	Parse(line string, id int) LogEntry
}

// NewParser returns the parser for the given format. header is only used
// by the tabular parser; nil selects positional column mapping.
func NewParser(f Format, header []string, keywords []string) Parser {
	switch f {
	case FormatTabular:
		return &TabularParser{Header: header, Keywords: keywords}
	default:
		return &PlainParser{Keywords: keywords}
	}
}
