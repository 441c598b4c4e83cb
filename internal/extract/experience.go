package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/text"
)

// yearsPattern matches "5 years", "10+ years", "1year". A leading digit
// rejects the match so four-digit years never turn into experience.
var yearsPattern = regexp.MustCompile(`(?:^|[^0-9])([0-9]{1,2})\+?\s*(?:years|year)`)

// Years returns the largest "N years" figure mentioned in s, or nil when there is none.
func Years(s string) *int {
	lower := strings.ToLower(s)

	var best *int
	for _, loc := range yearsPattern.FindAllStringSubmatchIndex(lower, -1) {
		if end := loc[1]; end < len(lower) {
			if r, _ := utf8.DecodeRuneInString(lower[end:]); text.IsWordRune(r) {
				continue
			}
		}

		n, err := strconv.Atoi(lower[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		if best == nil || n > *best {
			best = &n
		}
	}

	return best
}
