package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acelabs/ace-go-sdk/core"
)

// NewBullet creates a fresh bullet with a unique id, zeroed feedback
// counters, and the current time.
func NewBullet(content string, tags []string) core.Bullet {
	return core.Bullet{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: time.Now(),
		Tags:      tags,
	}
}

// ApplyFeedback returns a copy of the bullet with exactly one counter
// bumped. The id, content, creation time, and tags carry over unchanged;
// the input value is never mutated.
func ApplyFeedback(b core.Bullet, helpful bool) core.Bullet {
	out := b
	if helpful {
		out.HelpfulCount++
	} else {
		out.HarmfulCount++
	}
	return out
}

// Tokenize splits text into a lowercase whitespace-delimited word set.
// No stemming, no stopwords.
func Tokenize(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Similarity measures how much of the new content is already covered by the
// existing content, in [0, 1]. The denominator is the new content's token
// count, not a symmetric Jaccard index: a short restatement of material
// inside a long existing note still scores high, which biases the merger
// toward suppressing near-restatements. Either side empty counts as 0
// (never a duplicate).
func Similarity(newContent, existingContent string) float64 {
	newWords := Tokenize(newContent)
	existingWords := Tokenize(existingContent)
	if len(newWords) == 0 || len(existingWords) == 0 {
		return 0
	}
	overlap := 0
	for w := range newWords {
		if _, ok := existingWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(newWords))
}
