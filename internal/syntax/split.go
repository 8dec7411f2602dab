package syntax

import (
	"fmt"
	"strings"
)

// SplitOutsideQuotes tokenizes segment on delimiter, treating text inside a
// double-quoted span as opaque. Used both for inline array tails and for
// tabular data rows.
func SplitOutsideQuotes(segment string, delimiter rune) ([]string, error) {
	if strings.TrimSpace(segment) == "" {
		return nil, nil
	}
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	escaped := false

	for _, r := range segment {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuotes:
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			tokens = append(tokens, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("toon: unterminated quoted string in delimited values")
	}
	tokens = append(tokens, strings.TrimSpace(cur.String()))
	return tokens, nil
}

// IndexOutsideQuotes returns the byte offset of the first unquoted
// occurrence of target in s, or -1 if none exists.
func IndexOutsideQuotes(s string, target rune) int {
	inQuotes := false
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && r == target:
			return i
		}
	}
	return -1
}
