package memory_test

import (
	"testing"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/memory"
)

func stateOf(bullets ...core.Bullet) core.ContextState {
	state := core.NewContextState()
	for _, b := range bullets {
		state.Bullets[b.ID] = b
	}
	return state
}

func TestScoreBullet(t *testing.T) {
	query := memory.Tokenize("how to sort a list")

	b := memory.NewBullet("sort the list before searching", nil)
	if score := memory.ScoreBullet(b, query); score != 2.0 {
		t.Errorf("Expected overlap score 2.0, got %v", score)
	}

	// Feedback shifts the score by 0.1 per net vote.
	b.HelpfulCount = 3
	b.HarmfulCount = 1
	if score := memory.ScoreBullet(b, query); score != 2.2 {
		t.Errorf("Expected feedback-adjusted score 2.2, got %v", score)
	}

	// A bullet with no overlap and net-harmful feedback goes negative.
	bad := memory.NewBullet("unrelated trivia", nil)
	bad.HarmfulCount = 2
	if score := memory.ScoreBullet(bad, query); score >= 0 {
		t.Errorf("Expected negative score, got %v", score)
	}
}

func TestRetrieve_EmptyStore(t *testing.T) {
	if got := memory.Retrieve(core.NewContextState(), "anything", 10); got != nil {
		t.Errorf("Expected nil from an empty store, got %v", got)
	}
}

func TestRetrieve_ExcludesNonPositiveScores(t *testing.T) {
	relevant := memory.NewBullet("binary search needs sorted input", nil)
	unrelated := memory.NewBullet("quantum flux trivia", nil)
	state := stateOf(relevant, unrelated)

	got := memory.Retrieve(state, "binary search over sorted data", 10)
	if len(got) != 1 {
		t.Fatalf("Expected 1 bullet, got %d", len(got))
	}
	if got[0].ID != relevant.ID {
		t.Errorf("Expected the relevant bullet, got %q", got[0].Content)
	}
}

func TestRetrieve_OrdersByScoreAndHonorsLimit(t *testing.T) {
	strong := memory.NewBullet("sort data then binary search the data", nil)
	weak := memory.NewBullet("search slowly", nil)
	medium := memory.NewBullet("binary search is fast", nil)
	state := stateOf(strong, weak, medium)

	got := memory.Retrieve(state, "binary search sort data", 2)
	if len(got) != 2 {
		t.Fatalf("Expected limit to cap results at 2, got %d", len(got))
	}
	if got[0].ID != strong.ID {
		t.Errorf("Expected the highest-overlap bullet first, got %q", got[0].Content)
	}
	if got[1].ID != medium.ID {
		t.Errorf("Expected the medium bullet second, got %q", got[1].Content)
	}
}

func TestRetrieve_FeedbackBreaksTies(t *testing.T) {
	trusted := memory.NewBullet("binary search works", nil)
	trusted.HelpfulCount = 5
	distrusted := memory.NewBullet("binary search helps", nil)
	distrusted.HarmfulCount = 5
	state := stateOf(trusted, distrusted)

	got := memory.Retrieve(state, "binary search", 10)
	if len(got) != 2 {
		t.Fatalf("Expected 2 bullets, got %d", len(got))
	}
	if got[0].ID != trusted.ID {
		t.Error("Expected the net-helpful bullet to rank first on equal overlap")
	}
}

func TestRetrieve_ZeroLimit(t *testing.T) {
	state := stateOf(memory.NewBullet("some note", nil))
	if got := memory.Retrieve(state, "some note", 0); got != nil {
		t.Errorf("Expected nil for zero limit, got %v", got)
	}
}
