// Package fuzzy implements sequence-matcher based string similarity scores
// in the 0..100 range.
package fuzzy

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the similarity of a and b as an integer percentage.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return percent(difflib.NewMatcher(runes(a), runes(b)).Ratio())
}

// PartialRatio scores how well the shorter string matches its best aligned
// window inside the longer one. A string that appears verbatim inside the
// other scores 100.
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := runes(a), runes(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	blocks := difflib.NewMatcher(shorter, longer).GetMatchingBlocks()
	for _, block := range blocks {
		start := block.B - block.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}

		r := difflib.NewMatcher(shorter, longer[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return percent(best)
}

func percent(r float64) int {
	return int(math.RoundToEven(100 * r))
}

// runes splits s into one element per code point, the unit the matcher compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
