// Package strings holds small string helpers shared by the CLI and the
// services.
package strings

import (
	"strings"
)

// MinTruncateLen is the smallest maxLen Truncate honours. Shorter limits would
// not leave room for one character plus "...".
const MinTruncateLen = 4

// Truncate collapses all whitespace in s to single spaces and shortens the
// result to maxLen runes, ending in "..." when it was cut.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// Clean trims every value and drops blanks and repeats, keeping the order in
// which values first appear. It returns nil when nothing is left.
func Clean(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
