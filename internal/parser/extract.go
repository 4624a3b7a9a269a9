package parser

import (
	"regexp"
	"strings"
)

// leadingTimestamp matches YYYY-MM-DD, a whitespace character or a literal
// T, HH:MM:SS and optional milliseconds at the start of a line.
var leadingTimestamp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(?:\s|T)\d{2}:\d{2}:\d{2}(?:\.\d{3})?)`)

var levelPattern = regexp.MustCompile(`(?i)\b(ERROR|WARN|WARNING|INFO|DEBUG|TRACE|FATAL|CRITICAL)\b`)

// Extract pulls a leading timestamp and a level token out of line.
// The timestamp is removed from the returned message; the level token is
// left in place. Missing parts come back empty.
func Extract(line string) (timestamp, level, message string) {
	message = strings.TrimSpace(line)

	if m := leadingTimestamp.FindStringSubmatch(message); m != nil {
		timestamp = m[1]
		message = strings.TrimSpace(message[len(m[0]):])
	}

	if m := levelPattern.FindString(message); m != "" {
		level = strings.ToUpper(m)
	}
	return timestamp, level, message
}
