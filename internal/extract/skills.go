package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/text"
)

// Skills returns the vocabulary entries found in s as whole words or phrases.
// Entries keep their vocabulary casing, are deduplicated case-insensitively
// and come back in case-insensitive alphabetical order.
func Skills(s string, vocabulary []string) []string {
	haystack := strings.ToLower(s)
	seen := make(map[string]struct{}, len(vocabulary))
	found := make([]string, 0)

	for _, skill := range vocabulary {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if needle == "" {
			continue
		}
		if _, ok := seen[needle]; ok {
			continue
		}
		if !containsBounded(haystack, needle) {
			continue
		}
		seen[needle] = struct{}{}
		found = append(found, skill)
	}

	sort.SliceStable(found, func(i, j int) bool {
		li, lj := strings.ToLower(found[i]), strings.ToLower(found[j])
		if li != lj {
			return li < lj
		}
		return found[i] < found[j]
	})

	return found
}

// containsBounded reports whether needle occurs in haystack with a word boundary on both ends.
func containsBounded(haystack, needle string) bool {
	offset := 0
	for offset <= len(haystack)-len(needle) {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}

		start := offset + idx
		end := start + len(needle)
		if isBoundary(haystack, start) && isBoundary(haystack, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

// isBoundary reports whether position i of s sits between a word and a non-word character.
func isBoundary(s string, i int) bool {
	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = text.IsWordRune(r)
	}

	after := false
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = text.IsWordRune(r)
	}

	return before != after
}
