package tools_test

import (
	"context"
	"testing"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/memory"
	"github.com/acelabs/ace-go-sdk/tools"
)

func stateOf(bullets ...core.Bullet) core.ContextState {
	state := core.NewContextState()
	for _, b := range bullets {
		state.Bullets[b.ID] = b
	}
	return state
}

func TestSearchContext_RanksByOverlap(t *testing.T) {
	tool := tools.NewSearchTool(false)

	strong := memory.NewBullet("goroutines and channels enable concurrency", []string{"strategy"})
	weak := memory.NewBullet("channels block until both sides are ready", nil)
	unrelated := memory.NewBullet("chromatic scales in music", nil)
	state := stateOf(strong, weak, unrelated)

	results := tool.SearchContext("goroutines channels concurrency", state)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Content != strong.Content {
		t.Errorf("Expected the highest-overlap bullet first, got %q", results[0].Content)
	}
	if results[0].Relevance != 3 {
		t.Errorf("Expected relevance 3, got %d", results[0].Relevance)
	}
	if results[0].Source != "context" {
		t.Errorf("Expected context source, got %q", results[0].Source)
	}
	if len(results[0].Tags) != 1 || results[0].Tags[0] != "strategy" {
		t.Errorf("Expected bullet tags carried over, got %v", results[0].Tags)
	}
}

func TestSearchContext_CapsResults(t *testing.T) {
	tool := tools.NewSearchTool(false)

	state := core.NewContextState()
	for i := 0; i < 10; i++ {
		b := memory.NewBullet("note about concurrency patterns", nil)
		state.Bullets[b.ID] = b
	}

	results := tool.SearchContext("concurrency", state)
	if len(results) != tools.MaxSearchResults {
		t.Errorf("Expected results capped at %d, got %d", tools.MaxSearchResults, len(results))
	}
}

func TestSearchWeb_DisabledReturnsNothing(t *testing.T) {
	tool := tools.NewSearchTool(false)
	if results := tool.SearchWeb(context.Background(), "anything"); results != nil {
		t.Errorf("Expected no web results when disabled, got %v", results)
	}
}

// stubIndex returns a fixed set of semantically similar bullets.
type stubIndex struct {
	bullets []core.Bullet
}

func (s *stubIndex) Add(ctx context.Context, b core.Bullet) error {
	return nil
}

func (s *stubIndex) Similar(ctx context.Context, query string, limit int) ([]core.Bullet, error) {
	return s.bullets, nil
}

func TestSearch_MergesSemanticHits(t *testing.T) {
	contextHit := memory.NewBullet("buffered channels synchronize goroutines cheaply", nil)
	state := stateOf(contextHit)

	semanticOnly := memory.NewBullet("concurrent workers coordinate via message passing", nil)
	tool := tools.NewSearchTool(false)
	tool.Index = &stubIndex{bullets: []core.Bullet{semanticOnly, contextHit}}

	results := tool.Search(context.Background(), "buffered channels synchronize goroutines", state)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results (semantic duplicate of the context hit dropped), got %d", len(results))
	}
	if results[0].Source != "context" {
		t.Errorf("Expected the context hit to outrank semantic hits, got %q first", results[0].Source)
	}
	if results[1].Source != "semantic" || results[1].Relevance != 3 {
		t.Errorf("Unexpected semantic result: %+v", results[1])
	}
}
