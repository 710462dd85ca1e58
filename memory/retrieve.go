package memory

import (
	"sort"

	"github.com/acelabs/ace-go-sdk/core"
)

// ScoreBullet ranks a bullet against a pre-tokenized query: raw token
// overlap plus a small bias from accumulated feedback. Unhelpful bullets
// can score below zero and fall out of retrieval entirely.
func ScoreBullet(b core.Bullet, queryWords map[string]struct{}) float64 {
	bulletWords := Tokenize(b.Content)
	overlap := 0
	for w := range queryWords {
		if _, ok := bulletWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) + 0.1*float64(b.HelpfulCount-b.HarmfulCount)
}

// Retrieve returns up to limit bullets relevant to the query, best first.
// Bullets scoring zero or below are excluded. Pure function of the
// snapshot; an empty store returns nil before the query is even tokenized.
func Retrieve(state core.ContextState, query string, limit int) []core.Bullet {
	if len(state.Bullets) == 0 || limit <= 0 {
		return nil
	}
	queryWords := Tokenize(query)

	type scored struct {
		score  float64
		bullet core.Bullet
	}
	candidates := make([]scored, 0, len(state.Bullets))
	for _, id := range sortedIDs(state.Bullets) {
		b := state.Bullets[id]
		candidates = append(candidates, scored{ScoreBullet(b, queryWords), b})
	}
	// Stable sort over the id-ordered slice keeps equal scores in a fixed
	// order across calls.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	result := make([]core.Bullet, 0, limit)
	for _, c := range candidates {
		if c.score <= 0 {
			break // sorted descending, nothing positive remains
		}
		result = append(result, c.bullet)
		if len(result) == limit {
			break
		}
	}
	return result
}
