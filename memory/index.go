package memory

import (
	"context"
	"fmt"

	"github.com/acelabs/ace-go-sdk/core"
)

// Index is an optional semantic view over curated bullets. It never
// participates in core retrieval (which is pure token overlap); the search
// tool consults it to surface bullets that share meaning but not words
// with a query.
type Index interface {
	// Add indexes one bullet. Called by the Curator after a merge inserts it.
	Add(ctx context.Context, b core.Bullet) error

	// Similar returns up to limit bullets by semantic similarity, best first.
	Similar(ctx context.Context, query string, limit int) ([]core.Bullet, error)
}

// Embedder converts text to vector embeddings.
// Implementations: mock (testing, deterministic), onnx (local model).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// VectorStore is the storage backend behind a SemanticIndex.
// Implementation: chromem (embedded, pure Go).
type VectorStore interface {
	// Store saves a bullet with its embedding.
	Store(ctx context.Context, b core.Bullet, embedding []float32) error

	// Query returns bullets by vector similarity, best first.
	Query(ctx context.Context, embedding []float32, limit int) ([]core.Bullet, error)

	// Close releases resources.
	Close() error
}

// SemanticIndex composes an Embedder with a VectorStore.
type SemanticIndex struct {
	store    VectorStore
	embedder Embedder
}

// NewSemanticIndex creates an index over the given store and embedder.
func NewSemanticIndex(store VectorStore, embedder Embedder) *SemanticIndex {
	return &SemanticIndex{store: store, embedder: embedder}
}

// Add embeds the bullet content and stores it.
func (i *SemanticIndex) Add(ctx context.Context, b core.Bullet) error {
	embedding, err := i.embedder.Embed(ctx, b.Content)
	if err != nil {
		return fmt.Errorf("embed bullet: %w", err)
	}
	if err := i.store.Store(ctx, b, embedding); err != nil {
		return fmt.Errorf("store bullet: %w", err)
	}
	return nil
}

// Similar embeds the query and delegates to the store.
func (i *SemanticIndex) Similar(ctx context.Context, query string, limit int) ([]core.Bullet, error) {
	embedding, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return i.store.Query(ctx, embedding, limit)
}

// Close releases the underlying store.
func (i *SemanticIndex) Close() error {
	return i.store.Close()
}
