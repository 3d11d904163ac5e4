package utils

import "strings"

// TruncateForLog returns s as a single line of at most limit runes, appending an
// ellipsis when truncated. Runs of whitespace, newlines included, become one space
// so model output previews do not break line oriented log readers.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
