package memory_test

import (
	"testing"

	"github.com/acelabs/ace-go-sdk/memory"
)

func TestNewBullet(t *testing.T) {
	b := memory.NewBullet("use binary search on sorted data", []string{"strategy"})

	if b.ID == "" {
		t.Error("Expected a non-empty id")
	}
	if b.Content != "use binary search on sorted data" {
		t.Errorf("Unexpected content: %q", b.Content)
	}
	if b.HelpfulCount != 0 || b.HarmfulCount != 0 {
		t.Errorf("Expected zeroed counters, got helpful=%d harmful=%d", b.HelpfulCount, b.HarmfulCount)
	}
	if b.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if len(b.Tags) != 1 || b.Tags[0] != "strategy" {
		t.Errorf("Unexpected tags: %v", b.Tags)
	}

	// IDs must be unique across calls.
	other := memory.NewBullet("use binary search on sorted data", nil)
	if other.ID == b.ID {
		t.Error("Expected distinct ids for distinct bullets")
	}
}

func TestApplyFeedback(t *testing.T) {
	b := memory.NewBullet("cache intermediate results", nil)

	helpful := memory.ApplyFeedback(b, true)
	if helpful.HelpfulCount != 1 || helpful.HarmfulCount != 0 {
		t.Errorf("Expected helpful=1 harmful=0, got helpful=%d harmful=%d",
			helpful.HelpfulCount, helpful.HarmfulCount)
	}
	if helpful.ID != b.ID || helpful.Content != b.Content {
		t.Error("Feedback must not change id or content")
	}
	if !helpful.CreatedAt.Equal(b.CreatedAt) {
		t.Error("Feedback must not change creation time")
	}

	harmful := memory.ApplyFeedback(helpful, false)
	if harmful.HelpfulCount != 1 || harmful.HarmfulCount != 1 {
		t.Errorf("Expected helpful=1 harmful=1, got helpful=%d harmful=%d",
			harmful.HelpfulCount, harmful.HarmfulCount)
	}

	// The input value is never mutated.
	if b.HelpfulCount != 0 || b.HarmfulCount != 0 {
		t.Error("ApplyFeedback mutated its input")
	}
}

func TestSimilarity(t *testing.T) {
	// Denominator is the new content's token count, so the measure is
	// asymmetric: a short restatement of a long note scores high, not the
	// other way around.
	long := "use a hash map for fast constant time lookup of keys"
	short := "use a hash map"

	forward := memory.Similarity(short, long)
	if forward != 1.0 {
		t.Errorf("Expected short-in-long similarity 1.0, got %v", forward)
	}
	backward := memory.Similarity(long, short)
	if backward >= forward {
		t.Errorf("Expected asymmetry, got forward=%v backward=%v", forward, backward)
	}

	if s := memory.Similarity("completely unrelated words", "quantum flux capacitor"); s != 0 {
		t.Errorf("Expected zero similarity for disjoint content, got %v", s)
	}
	if s := memory.Similarity("", "some content"); s != 0 {
		t.Errorf("Expected zero similarity for empty new content, got %v", s)
	}
	if s := memory.Similarity("some content", ""); s != 0 {
		t.Errorf("Expected zero similarity for empty existing content, got %v", s)
	}

	// Case and whitespace are normalized away.
	if s := memory.Similarity("Hash  Map", "hash map lookup"); s != 1.0 {
		t.Errorf("Expected case-insensitive match, got %v", s)
	}
}

func TestTokenize(t *testing.T) {
	set := memory.Tokenize("The quick  Quick\tfox")
	if len(set) != 3 {
		t.Errorf("Expected 3 unique tokens, got %d: %v", len(set), set)
	}
	for _, w := range []string{"the", "quick", "fox"} {
		if _, ok := set[w]; !ok {
			t.Errorf("Expected token %q in set", w)
		}
	}
}
