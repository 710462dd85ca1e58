package core

import "time"

// Bullet is a single atomic memory note with usage feedback counters.
//
// A bullet's ID and Content are immutable for its whole lifetime; feedback
// produces a new Bullet value carrying the same ID with one counter bumped.
// Counters only ever grow.
type Bullet struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	HelpfulCount int       `json:"helpful_count"`
	HarmfulCount int       `json:"harmful_count"`
	CreatedAt    time.Time `json:"created_at"`
	Tags         []string  `json:"tags"`
}

// ContextState is one versioned generation of the context memory.
//
// States are treated as immutable snapshots: merges replace the whole state
// and bump Version by exactly one, never mutate in place. The live state is
// owned by a single writer (the Curator); everyone else works on copies.
type ContextState struct {
	Bullets map[string]Bullet `json:"bullets"`
	Version int               `json:"version"`
}

// NewContextState returns an empty state at version 0.
func NewContextState() ContextState {
	return ContextState{Bullets: make(map[string]Bullet)}
}

// Clone returns a deep copy of the state. Bullet values are copied by
// assignment; tag slices are shared, which is safe because bullets are never
// mutated through a snapshot.
func (s ContextState) Clone() ContextState {
	bullets := make(map[string]Bullet, len(s.Bullets))
	for id, b := range s.Bullets {
		bullets[id] = b
	}
	return ContextState{Bullets: bullets, Version: s.Version}
}

// DeltaUpdate is a batch of candidate bullets to fold into the memory.
// Deltas are transient: built once, consumed by exactly one merge.
type DeltaUpdate struct {
	Bullets   []Bullet  `json:"bullets"`
	Timestamp time.Time `json:"timestamp"`
}

// ReasoningStep is a single step in a generation trajectory.
type ReasoningStep struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Trajectory is the structured record of one query-answer reasoning pass.
// It is produced once per generation call and never mutated after parsing;
// UsedBullets and Feedback are populated later by outer collaborators.
type Trajectory struct {
	Query       string          `json:"query"`
	Steps       []ReasoningStep `json:"steps"`
	Outcome     string          `json:"outcome"`
	Success     bool            `json:"success"`
	UsedBullets []string        `json:"used_bullets"`
	Feedback    string          `json:"feedback,omitempty"`
}

// Insight is a distilled, confidence-scored lesson extracted from a
// trajectory. Insights are consumed immediately to build a DeltaUpdate.
type Insight struct {
	Content    string  `json:"content"`
	Type       string  `json:"insight_type"`
	Confidence float64 `json:"confidence"`
	SourceID   string  `json:"source_id"`
}

// ContextStats summarizes the current memory for callers.
type ContextStats struct {
	TotalBullets   int     `json:"total_bullets"`
	HelpfulBullets int     `json:"helpful_bullets"`
	Version        int     `json:"version"`
	AvgHelpfulness float64 `json:"avg_helpfulness"`
}
