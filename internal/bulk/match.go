// Package bulk imports orders from spreadsheets and exports them back.
// Spreadsheet data is typist-grade, so name matching is deliberately loose.
package bulk

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases, trims and strips combining marks, so "Café"/"cafe"
// and vocalized/unvocalized Arabic spellings compare equal.
func normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// matchName finds target among candidate names: normalized exact match first,
// then substring containment in either direction. With several containment
// hits the longest candidate wins, as it is the most specific.
func matchName(candidates []string, target string) (int, bool) {
	want := normalize(target)
	if want == "" {
		return 0, false
	}

	for i, c := range candidates {
		if normalize(c) == want {
			return i, true
		}
	}

	best, bestLen := -1, 0
	for i, c := range candidates {
		have := normalize(c)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			if len(have) > bestLen {
				best, bestLen = i, len(have)
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
