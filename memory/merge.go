package memory

import (
	"sort"

	"github.com/acelabs/ace-go-sdk/core"
)

// DuplicateThreshold is the minimum Similarity at which an incoming bullet
// is absorbed into an existing one instead of inserted.
const DuplicateThreshold = 0.7

// MergeDelta folds a batch of candidate bullets into the state and returns
// a new state; the input state is untouched. Each incoming bullet either
// reinforces the first existing bullet it duplicates (the existing note
// keeps its id and content and gains a helpful vote; the incoming id and
// content are discarded) or is inserted under its own id. The version
// always advances by exactly one, including for an empty delta.
func MergeDelta(state core.ContextState, delta core.DeltaUpdate) core.ContextState {
	merged := make(map[string]core.Bullet, len(state.Bullets)+len(delta.Bullets))
	for id, b := range state.Bullets {
		merged[id] = b
	}
	for _, incoming := range delta.Bullets {
		if id, ok := findDuplicate(incoming, merged); ok {
			merged[id] = ApplyFeedback(merged[id], true)
			continue
		}
		merged[incoming.ID] = incoming
	}
	return core.ContextState{Bullets: merged, Version: state.Version + 1}
}

// findDuplicate returns the id of the first existing bullet the incoming
// content duplicates. Candidates are scanned in ascending id order; map
// iteration order would make "first" nondeterministic across merges.
func findDuplicate(incoming core.Bullet, existing map[string]core.Bullet) (string, bool) {
	for _, id := range sortedIDs(existing) {
		if Similarity(incoming.Content, existing[id].Content) >= DuplicateThreshold {
			return id, true
		}
	}
	return "", false
}

func sortedIDs(bullets map[string]core.Bullet) []string {
	ids := make([]string, 0, len(bullets))
	for id := range bullets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
