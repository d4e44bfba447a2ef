package mention

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is a ranked candidate.
type Result struct {
	Candidate Candidate

	// Score is higher for better matches.
	Score int

	// Matches holds the rune indices of matched characters in the folded
	// label.
	Matches []int
}

// Fold normalises s for matching: accents are stripped and case is
// folded, so "Zoë" and "ZOE" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// Rank matches token against the candidate labels as a subsequence and
// returns the matches best first. Ties keep label order. An empty token
// returns the first limit candidates unscored. limit <= 0 means no limit.
func Rank(token string, cands []Candidate, limit int) []Result {
	query := []rune(Fold(strings.TrimSpace(token)))

	var results []Result
	if len(query) == 0 {
		for _, c := range cands {
			results = append(results, Result{Candidate: c})
		}
		return applyLimit(results, limit)
	}

	for _, c := range cands {
		text := []rune(Fold(c.Label))
		matches := subsequence(query, text)
		if matches == nil {
			continue
		}
		results = append(results, Result{Candidate: c, Score: score(query, text, matches), Matches: matches})
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.Candidate.Label, b.Candidate.Label)
	})
	return applyLimit(results, limit)
}

// subsequence returns the indices of a greedy left-to-right match of
// query in text, or nil.
func subsequence(query, text []rune) []int {
	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return nil
	}
	return matches
}

// score rewards consecutive matches, matches at word starts and prefix
// matches, and penalises gaps and a late first match.
func score(query, text []rune, matches []int) int {
	s := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += 20
		}
	}
	for _, idx := range matches {
		if isWordStart(text, idx) {
			s += 15
		}
	}
	if matches[0] == 0 {
		s += 25
	}
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		s -= gap * 2
	}
	s -= matches[0]
	if len(text) < 20 {
		s += 20 - len(text)
	}
	if len(text) >= len(query) && slices.Equal(text[:len(query)], query) {
		s += 50
	}
	return max(s, 1)
}

func isWordStart(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(text) {
		return false
	}
	prev := text[idx-1]
	return unicode.IsSpace(prev) || unicode.IsPunct(prev)
}

func applyLimit(results []Result, limit int) []Result {
	if limit <= 0 || limit >= len(results) {
		return results
	}
	return results[:limit]
}
