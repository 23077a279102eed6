// Package suggest finds registered names close to a mistyped one, for "did you mean" hints.
package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// threshold is the minimum similarity score required for a string to be considered similar.
const threshold = 0.5

type scored struct {
	name  string
	score float64
}

// FindSimilar returns up to maxResults candidates similar to target, most similar first. Ties are
// broken alphabetically and duplicate candidates are reported once.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if target == "" || maxResults <= 0 {
		return []string{}
	}

	seen := make(map[string]bool, len(candidates))
	suggestions := make([]scored, 0, len(candidates))
	for _, name := range candidates {
		if seen[name] {
			continue
		}
		seen[name] = true
		if score := calculateSimilarity(target, name); score > threshold {
			suggestions = append(suggestions, scored{name: name, score: score})
		}
	}

	slices.SortFunc(suggestions, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	result := make([]string, 0, min(maxResults, len(suggestions)))
	for _, s := range suggestions[:min(maxResults, len(suggestions))] {
		result = append(result, s.name)
	}
	return result
}

// calculateSimilarity scores a and b between 0 and 1, ignoring case. A candidate that extends the
// target scores 0.9 so that abbreviations rank high.
func calculateSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}
	if a != "" && strings.HasPrefix(b, a) {
		return 0.9
	}
	distance := levenshteinDistance(a, b)
	maxLen := float64(max(utf8.RuneCountInString(a), utf8.RuneCountInString(b)))
	return 1.0 - float64(distance)/maxLen
}

func levenshteinDistance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}
