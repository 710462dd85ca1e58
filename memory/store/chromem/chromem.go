// Package chromem backs the semantic index with chromem-go, a pure Go
// embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/acelabs/ace-go-sdk/core"
)

const collectionName = "bullets"

// Store keeps bullet embeddings in a single chromem collection.
type Store struct {
	db  *chromem.DB
	col *chromem.Collection
	mu  sync.Mutex
}

// New creates an in-memory store.
func New() (*Store, error) {
	db := chromem.NewDB()
	// Embeddings are supplied by the caller; no embedding or distance
	// function overrides.
	col, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{db: db, col: col}, nil
}

// Store saves a bullet with its embedding. The bullet body travels in the
// document content and metadata so Query can rebuild it without a second
// lookup.
func (s *Store) Store(ctx context.Context, b core.Bullet, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chromem.Document{
		ID:        b.ID,
		Content:   b.Content,
		Embedding: embedding,
		Metadata: map[string]string{
			"tags":          strings.Join(b.Tags, ","),
			"helpful_count": fmt.Sprintf("%d", b.HelpfulCount),
			"harmful_count": fmt.Sprintf("%d", b.HarmfulCount),
			"created_at":    b.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	if err := s.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query returns bullets by vector similarity, best first.
func (s *Store) Query(ctx context.Context, embedding []float32, limit int) ([]core.Bullet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// chromem rejects nResults larger than the collection; clamp.
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}

	results, err := s.col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	bullets := make([]core.Bullet, 0, len(results))
	for i, result := range results {
		b, err := bulletFromResult(result)
		if err != nil {
			log.Printf("[CHROMEM] Skipping result #%d: %v", i+1, err)
			continue
		}
		bullets = append(bullets, b)
	}
	return bullets, nil
}

// Close releases resources. chromem keeps everything in memory, so there is
// nothing to tear down.
func (s *Store) Close() error {
	return nil
}

func bulletFromResult(result chromem.Result) (core.Bullet, error) {
	if result.ID == "" {
		return core.Bullet{}, fmt.Errorf("result without id")
	}
	b := core.Bullet{
		ID:      result.ID,
		Content: result.Content,
	}
	if raw := result.Metadata["tags"]; raw != "" {
		b.Tags = strings.Split(raw, ",")
	}
	fmt.Sscanf(result.Metadata["helpful_count"], "%d", &b.HelpfulCount)
	fmt.Sscanf(result.Metadata["harmful_count"], "%d", &b.HarmfulCount)
	if ts, err := time.Parse(time.RFC3339Nano, result.Metadata["created_at"]); err == nil {
		b.CreatedAt = ts
	}
	return b, nil
}
