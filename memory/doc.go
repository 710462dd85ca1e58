// Package memory implements the context memory engine: the bullet store and
// its pure operations, relevance scoring and retrieval, and delta-based
// merging with near-duplicate suppression.
//
// The design is a functional core behind a single writer:
//   - Bullet primitives, scoring, and merging are pure functions over
//     ContextState snapshots.
//   - The Curator owns the one live ContextState and serializes all
//     mutation; readers only ever see deep copies.
//
// Merging is the compaction mechanism of the memory: an incoming bullet
// whose content mostly restates an existing note is absorbed into that note
// as a helpfulness vote instead of a new entry, so repeated observations
// reinforce confidence rather than bloating the store.
//
// An optional semantic Index (a chromem-go store plus an Embedder) can
// mirror curated bullets for vector search; it augments the search tool
// only and never participates in core retrieval.
package memory
