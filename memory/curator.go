package memory

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/acelabs/ace-go-sdk/core"
)

// TagConversation marks bullets curated from raw query/response pairs.
const TagConversation = "conversation"

// Curator owns the live ContextState. It is the only writer: all mutation
// goes through ApplyDelta under a mutex, and readers get deep copies so
// nothing outside can touch the live map. This serializes updates while
// letting retrieval run on snapshots.
type Curator struct {
	mu    sync.Mutex
	state core.ContextState
	index Index
}

// CuratorOption configures a Curator.
type CuratorOption func(*Curator)

// WithIndex mirrors newly inserted bullets into a semantic index. Index
// failures are logged and never block curation.
func WithIndex(idx Index) CuratorOption {
	return func(c *Curator) {
		c.index = idx
	}
}

// NewCurator creates a curator over an empty version-0 state.
func NewCurator(opts ...CuratorOption) *Curator {
	c := &Curator{state: core.NewContextState()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a deep copy of the current state.
func (c *Curator) Snapshot() core.ContextState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// ApplyDelta merges the delta into the live state and returns the new
// version. Consumes the delta: callers must not reuse it.
func (c *Curator) ApplyDelta(ctx context.Context, delta core.DeltaUpdate) int {
	c.mu.Lock()
	before := len(c.state.Bullets)
	c.state = MergeDelta(c.state, delta)
	after := len(c.state.Bullets)
	version := c.state.Version

	// Bullets whose own id survived the merge are new entries; absorbed
	// duplicates lose their id and stay out of the index.
	var inserted []core.Bullet
	if c.index != nil {
		for _, b := range delta.Bullets {
			if stored, ok := c.state.Bullets[b.ID]; ok {
				inserted = append(inserted, stored)
			}
		}
	}
	c.mu.Unlock()

	log.Printf("[MEMORY] Merged %d bullet(s): %d -> %d entries, version %d",
		len(delta.Bullets), before, after, version)

	for _, b := range inserted {
		if err := c.index.Add(ctx, b); err != nil {
			log.Printf("[MEMORY] Failed to index bullet %s: %v", b.ID, err)
		}
	}
	return version
}

// LearnConversation curates a raw query/response pair as a single
// conversational bullet, bypassing generation and reflection entirely.
// It cannot fail observably.
func (c *Curator) LearnConversation(ctx context.Context, query, response string) {
	content := fmt.Sprintf("Query: %s | Response: %s", query, truncate(response, 200))
	delta := core.DeltaUpdate{
		Bullets:   []core.Bullet{NewBullet(content, []string{TagConversation})},
		Timestamp: time.Now(),
	}
	c.ApplyDelta(ctx, delta)
}

// LatestConversation returns the newest conversation-tagged bullet, if any.
func (c *Curator) LatestConversation() (core.Bullet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var newest core.Bullet
	found := false
	for _, id := range sortedIDs(c.state.Bullets) {
		b := c.state.Bullets[id]
		if !hasTag(b, TagConversation) {
			continue
		}
		if !found || b.CreatedAt.After(newest.CreatedAt) {
			newest = b
			found = true
		}
	}
	return newest, found
}

// Stats summarizes the live state. A bullet counts as helpful when its
// helpful votes strictly exceed its harmful ones; AvgHelpfulness is the
// mean helpful count, 0.0 for an empty store.
func (c *Curator) Stats() core.ContextStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := core.ContextStats{
		TotalBullets: len(c.state.Bullets),
		Version:      c.state.Version,
	}
	sum := 0
	for _, b := range c.state.Bullets {
		if b.HelpfulCount > b.HarmfulCount {
			stats.HelpfulBullets++
		}
		sum += b.HelpfulCount
	}
	if stats.TotalBullets > 0 {
		stats.AvgHelpfulness = float64(sum) / float64(stats.TotalBullets)
	}
	return stats
}

func hasTag(b core.Bullet, tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// truncate truncates a string to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
