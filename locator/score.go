package locator

import (
	"cmp"
	"slices"
	"unicode/utf16"

	"golang.org/x/net/html"

	"github.com/hazyhaar/locscope/dom"
)

const (
	baseScore        = 50
	uniqueBonus      = 10
	duplicatePenalty = 5
	noMatchPenalty   = 20
	dynamicPenalty   = 30
	longExpression   = 150
	longPenalty      = 10
	shortExpression  = 30
	shortBonus       = 5
	visibleBonus     = 5
)

// Score computes the 0..100 score of a candidate.
func Score(c Candidate, matchCount int, dynamic, visible bool) int {
	s := baseScore + c.Kind.Weight()

	switch {
	case matchCount == 1:
		s += uniqueBonus
	case matchCount > 1:
		s -= duplicatePenalty * (matchCount - 1)
	default:
		s -= noMatchPenalty
	}

	if dynamic {
		s -= dynamicPenalty
	}

	switch n := expressionLength(c.Expression); {
	case n > longExpression:
		s -= longPenalty
	case n < shortExpression:
		s += shortBonus
	}

	if visible {
		s += visibleBonus
	}
	return min(max(s, 0), 100)
}

// expressionLength counts UTF-16 code units, the unit browsers measure
// string length in.
func expressionLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Evaluate scores candidates against the document and ranks them.
func (e *Engine) Evaluate(acc dom.Accessor, el *html.Node, cands []Candidate) []ScoredLocator {
	visible := dom.IsVisible(acc, el)
	out := make([]ScoredLocator, 0, len(cands))
	for _, c := range cands {
		count := MatchCount(acc, c)
		dynamic := e.policy.IsDynamic(c.Expression)
		score := Score(c, count, dynamic, visible)
		out = append(out, ScoredLocator{
			Candidate:     c,
			Score:         score,
			StabilityTier: TierFor(score),
			MatchCount:    count,
			Dynamic:       dynamic,
		})
	}
	Rank(out)
	return out
}

// Rank sorts by descending score, then by descending kind weight. Remaining
// ties keep their input order, which for generated candidates is the
// generation order.
func Rank(locs []ScoredLocator) {
	slices.SortStableFunc(locs, func(a, b ScoredLocator) int {
		return cmp.Or(
			cmp.Compare(b.Score, a.Score),
			cmp.Compare(b.Kind.Weight(), a.Kind.Weight()),
		)
	})
}
