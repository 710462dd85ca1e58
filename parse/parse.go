// Package parse extracts structured trajectories and insights from raw
// model output. Model text is untrusted free text, so extraction is
// tolerant, case-insensitive pattern matching with a deterministic fallback
// for every field: these functions never fail and always return a usable
// value.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/acelabs/ace-go-sdk/core"
)

// The grammar: single-line tags STEPS (bracketed, semicolon-separated),
// OUTCOME (to end of line), SUCCESS (true/false), and the bracketed insight
// triple [Content: ...; Type: ...; Confidence: ...]. Keys match
// case-insensitively.
var (
	stepsRe   = regexp.MustCompile(`(?i)STEPS:\s*\[(.*?)\]`)
	outcomeRe = regexp.MustCompile(`(?i)OUTCOME:\s*([^\n]+)`)
	successRe = regexp.MustCompile(`(?i)SUCCESS:\s*(true|false)`)
	insightRe = regexp.MustCompile(`(?i)\[Content:\s*(.+?);\s*Type:\s*(.+?);\s*Confidence:\s*([0-9.]+)\]`)
)

// FallbackStep is the step description used when no step list can be
// extracted.
const FallbackStep = "Processed query"

// Trajectory extracts a structured reasoning record from raw model output.
// A missing or empty step list degrades to a single FallbackStep; a missing
// outcome degrades to the first 200 characters of the text; a missing
// success flag defaults to true. UsedBullets and Feedback are always left
// unset at parse time.
func Trajectory(query, text string) core.Trajectory {
	t := core.Trajectory{Query: query, Success: true}

	if m := stepsRe.FindStringSubmatch(text); m != nil {
		for _, part := range strings.Split(m[1], ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t.Steps = append(t.Steps, core.ReasoningStep{
				Description: part,
				Timestamp:   time.Now(),
			})
		}
	}
	if len(t.Steps) == 0 {
		t.Steps = []core.ReasoningStep{{Description: FallbackStep, Timestamp: time.Now()}}
	}

	if m := outcomeRe.FindStringSubmatch(text); m != nil {
		t.Outcome = strings.TrimSpace(m[1])
	} else {
		t.Outcome = head(text, 200)
	}

	if m := successRe.FindStringSubmatch(text); m != nil {
		t.Success = strings.EqualFold(m[1], "true")
	}
	return t
}

// Insights extracts confidence-scored lessons from raw model output. A
// match whose confidence does not parse or falls outside [0, 1] is
// discarded entirely. When nothing valid remains, a single synthetic
// fallback insight is returned so reflection always yields a value.
func Insights(text, sourceID string) []core.Insight {
	var insights []core.Insight
	for _, m := range insightRe.FindAllStringSubmatch(text, -1) {
		confidence, err := strconv.ParseFloat(m[3], 64)
		if err != nil || confidence < 0 || confidence > 1 {
			continue
		}
		insights = append(insights, core.Insight{
			Content:    strings.TrimSpace(m[1]),
			Type:       strings.TrimSpace(m[2]),
			Confidence: confidence,
			SourceID:   sourceID,
		})
	}
	if len(insights) == 0 {
		insights = append(insights, core.Insight{
			Content:    "Task completed successfully",
			Type:       "strategy",
			Confidence: 0.5,
			SourceID:   sourceID,
		})
	}
	return insights
}

func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
