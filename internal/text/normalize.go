package text

import (
	"strings"
	"unicode"
)

// Normalize collapses every run of whitespace into a single space and trims the result.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// IsWordRune reports whether r is a word character: a letter, a digit, a mark or an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// Prefix returns at most limit leading characters of s.
func Prefix(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
