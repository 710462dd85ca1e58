package chromem_test

import (
	"context"
	"testing"
	"time"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/memory/embedder/mock"
	"github.com/acelabs/ace-go-sdk/memory/store/chromem"
)

func TestStoreAndQuery(t *testing.T) {
	ctx := context.Background()

	store, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	embedder := mock.New()

	bullet := core.Bullet{
		ID:           "b-1",
		Content:      "goroutines are lightweight threads",
		HelpfulCount: 2,
		HarmfulCount: 1,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		Tags:         []string{"strategy", "conversation"},
	}
	embedding, err := embedder.Embed(ctx, bullet.Content)
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}
	if err := store.Store(ctx, bullet, embedding); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}

	// Querying with the exact embedding must return the bullet intact.
	got, err := store.Query(ctx, embedding, 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(got))
	}
	found := got[0]
	if found.ID != bullet.ID || found.Content != bullet.Content {
		t.Errorf("Unexpected bullet: %+v", found)
	}
	if found.HelpfulCount != 2 || found.HarmfulCount != 1 {
		t.Errorf("Feedback counters lost: helpful=%d harmful=%d", found.HelpfulCount, found.HarmfulCount)
	}
	if len(found.Tags) != 2 || found.Tags[0] != "strategy" || found.Tags[1] != "conversation" {
		t.Errorf("Tags lost: %v", found.Tags)
	}
	if !found.CreatedAt.Equal(bullet.CreatedAt) {
		t.Errorf("CreatedAt lost: got %v, want %v", found.CreatedAt, bullet.CreatedAt)
	}
}

func TestQuery_EmptyStore(t *testing.T) {
	ctx := context.Background()

	store, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	embedding, _ := mock.New().Embed(ctx, "anything")
	got, err := store.Query(ctx, embedding, 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no results from an empty store, got %d", len(got))
	}
}

func TestQuery_LimitClampedToCollectionSize(t *testing.T) {
	ctx := context.Background()

	store, err := chromem.New()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	embedder := mock.New()
	for _, content := range []string{"first note", "second note"} {
		b := core.Bullet{ID: content, Content: content, CreatedAt: time.Now()}
		embedding, _ := embedder.Embed(ctx, content)
		if err := store.Store(ctx, b, embedding); err != nil {
			t.Fatalf("Failed to store: %v", err)
		}
	}

	embedding, _ := embedder.Embed(ctx, "note")
	got, err := store.Query(ctx, embedding, 50)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected the limit clamped to 2 stored bullets, got %d results", len(got))
	}
}
