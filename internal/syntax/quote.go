// Package syntax implements the lexical rules shared by the encoder and
// decoder: the unquoted-safety predicate, quote/unescape, numeric-literal
// detection, and delimiter-aware splitting. Neither the encoder nor the
// decoder duplicates these rules; both call into this package so the
// grammar stays in exactly one place.
package syntax

import (
	"fmt"
	"strings"
	"unicode"
)

// QuoteContext carries the delimiter information the unquoted-safety
// predicate needs: the delimiter active inside the current array scope
// (if any) and the document-wide delimiter used for scalars outside any
// array.
type QuoteContext struct {
	ArrayDelimiter    rune
	DocumentDelimiter rune
	InArray           bool
}

// FormatString renders s as a TOON primitive token: bare if safe, quoted
// and escaped otherwise.
func FormatString(s string, ctx QuoteContext) (string, error) {
	if err := checkControlChars(s); err != nil {
		return "", err
	}
	if RequiresQuotes(s, ctx) {
		return Quote(s)
	}
	return s, nil
}

// RequiresQuotes reports whether s cannot be emitted bare under ctx.
func RequiresQuotes(s string, ctx QuoteContext) bool {
	if s == "" {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	switch s {
	case "true", "false", "null":
		return true
	}
	if LooksNumeric(s) || hasLeadingZeroRun(s) {
		return true
	}
	if strings.ContainsAny(s, ":\\\"[]{}") {
		return true
	}
	if strings.ContainsAny(s, "\n\r\t") {
		return true
	}
	if strings.HasPrefix(s, "-") {
		return true
	}
	if strings.HasPrefix(s, "+") && LooksNumeric(s[1:]) {
		return true
	}
	if ctx.InArray && ctx.ArrayDelimiter != 0 && strings.ContainsRune(s, ctx.ArrayDelimiter) {
		return true
	}
	if !ctx.InArray && ctx.DocumentDelimiter != 0 && strings.ContainsRune(s, ctx.DocumentDelimiter) {
		return true
	}
	return false
}

// Quote wraps s in double quotes, escaping \, ", LF, CR, and TAB.
func Quote(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				return "", fmt.Errorf("toon: control character U+%04X is not representable in a quoted string", r)
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

// Unquote strips the surrounding quotes from token and unescapes its
// contents. token must start and end with an (unescaped) double quote.
func Unquote(token string) (string, error) {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return "", fmt.Errorf("toon: %q is not a quoted string", token)
	}
	var b strings.Builder
	b.Grow(len(token) - 2)
	escaped := false
	for i := 1; i < len(token)-1; i++ {
		c := token[i]
		if escaped {
			switch c {
			case '\\', '"':
				b.WriteByte(c)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", fmt.Errorf("toon: invalid escape sequence \\%c", c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	if escaped {
		return "", fmt.Errorf("toon: unterminated escape sequence in quoted string")
	}
	return b.String(), nil
}

func checkControlChars(s string) error {
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return fmt.Errorf("toon: control character U+%04X is not representable", r)
		}
	}
	return nil
}

// LooksNumeric reports whether s has the shape of a JSON-style number
// literal (optional leading '-', digits, optional fraction, optional
// exponent).
func LooksNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
		if i == len(s) {
			return false
		}
	}
	digits := 0
	for i < len(s) && isASCIIDigit(s[i]) {
		i++
		digits++
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i == len(s) || !isASCIIDigit(s[i]) {
			return false
		}
		for i < len(s) && isASCIIDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i == len(s) || !isASCIIDigit(s[i]) {
			return false
		}
		for i < len(s) && isASCIIDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

// hasLeadingZeroRun reports whether s is a bare digit run with a forbidden
// leading zero, e.g. "007" — numeric-looking but not a valid TOON number,
// so it must be quoted (and decodes back as a string).
func hasLeadingZeroRun(s string) bool {
	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}
	if len(s)-start < 2 {
		return false
	}
	if s[start] != '0' {
		return false
	}
	if strings.ContainsAny(s, ".eE") {
		return false
	}
	return isASCIIDigit(s[start+1])
}

// IsValidUnquotedKey reports whether key matches the bare-key identifier
// pattern: leading letter or underscore, then letters/digits/underscore/dot.
func IsValidUnquotedKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// EncodeKey renders key as a TOON key token, quoting it if it is not a
// valid bare identifier.
func EncodeKey(key string) (string, error) {
	if key == "" {
		return Quote(key)
	}
	if IsValidUnquotedKey(key) {
		return key, nil
	}
	return Quote(key)
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }
