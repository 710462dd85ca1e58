package engine

import (
	"fmt"
	"strings"

	"github.com/acelabs/ace-go-sdk/core"
)

// BuildContextPrompt renders retrieved bullets for prompt injection, one
// line per bullet with a short id prefix and its feedback counts.
func BuildContextPrompt(bullets []core.Bullet) string {
	if len(bullets) == 0 {
		return "No previous context available."
	}
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		lines = append(lines, fmt.Sprintf("[%s] %s (helpful: %d, harmful: %d)",
			shortID(b.ID), b.Content, b.HelpfulCount, b.HarmfulCount))
	}
	return strings.Join(lines, "\n")
}

// answerFormat instructs the model to answer in the tagged form the parser
// extracts.
const answerFormat = "Provide a brief answer in this format:\n" +
	"STEPS: [step1; step2; step3]\n" +
	"OUTCOME: your answer here\n" +
	"SUCCESS: true\n" +
	"USED_BULLETS: []"

// buildQueryPrompt embeds the retrieved context ahead of the query and the
// answer-format instructions.
func buildQueryPrompt(query string, bullets []core.Bullet) string {
	return fmt.Sprintf("Context:\n%s\n\n%s\n\n%s", BuildContextPrompt(bullets), query, answerFormat)
}

// buildReflectionPrompt asks for one insight in the bracketed triple form
// the parser extracts.
func buildReflectionPrompt(t core.Trajectory) string {
	return fmt.Sprintf("Based on this task: %s\nResult: %s\n\n"+
		"Provide one key insight:\n"+
		"[Content: key learning from this task; Type: strategy; Confidence: 0.8]",
		t.Query, t.Outcome)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
