package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/acelabs/ace-go-sdk/memory/embedder/mock"
)

func TestEmbed_Deterministic(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New()

	a, err := embedder.Embed(ctx, "some text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, err := embedder.Embed(ctx, "some text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(a) != embedder.Dimensions() {
		t.Fatalf("Expected %d dimensions, got %d", embedder.Dimensions(), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Identical text embedded differently at dimension %d", i)
		}
	}
}

func TestEmbed_DistinctTextsDiffer(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New()

	a, _ := embedder.Embed(ctx, "first text")
	b, _ := embedder.Embed(ctx, "second text")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different texts to embed differently")
	}
}

func TestEmbed_UnitNorm(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New()

	vec, _ := embedder.Embed(ctx, "normalize me")
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if math.Abs(norm-1.0) > 1e-4 {
		t.Errorf("Expected unit norm, got %v", norm)
	}
}
