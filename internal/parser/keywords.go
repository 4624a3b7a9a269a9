package parser

import "strings"

// MatchKeywords returns the keywords contained in message, compared
// case-insensitively as substrings, in keyword-list order. The result is
// never nil. Duplicate keywords are checked independently.
func MatchKeywords(message string, keywords []string) []string {
	matched := make([]string, 0, len(keywords))
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
