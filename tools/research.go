package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/model"
)

// ResearchTool runs a multi-step research pass: search known sources,
// generate focused questions, answer each with searched context, and
// synthesize a report.
type ResearchTool struct {
	Search *SearchTool
}

// NewResearchTool creates a research tool over the given search tool.
func NewResearchTool(search *SearchTool) *ResearchTool {
	return &ResearchTool{Search: search}
}

const researchQuestionCount = 3

// Research produces a structured report on the topic. The returned string
// interleaves progress lines with the synthesized report, mirroring what a
// caller would print live.
func (r *ResearchTool) Research(ctx context.Context, topic string, client model.Client, state core.ContextState) (string, error) {
	var out []string

	out = append(out, "Step 1: Searching knowledge sources...")
	sources := r.Search.Search(ctx, topic, state)
	if len(sources) > 0 {
		out = append(out, fmt.Sprintf("   Found %d relevant sources", len(sources)))
		for i, src := range sources {
			if i == 3 {
				break
			}
			out = append(out, fmt.Sprintf("   %d. [%s] %s", i+1, src.Source, clip(src.Content, 80)))
		}
	}

	out = append(out, "", "Step 2: Generating research questions...")
	questionsPrompt := fmt.Sprintf(
		"Research topic: %s\n\nBased on available information, generate %d specific research questions to explore:",
		topic, researchQuestionCount)
	rawQuestions, err := client.Generate(ctx, questionsPrompt, model.Options{})
	if err != nil {
		return "", err
	}
	var questions []string
	for _, line := range strings.Split(rawQuestions, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == researchQuestionCount {
			break
		}
	}
	for i, q := range questions {
		out = append(out, fmt.Sprintf("   Q%d: %s", i+1, q))
	}

	out = append(out, "", "Step 3: Researching answers...")
	var answers []string
	for i, question := range questions {
		hits := r.Search.Search(ctx, question, state)
		var contextInfo []string
		for j, hit := range hits {
			if j == 2 {
				break
			}
			contextInfo = append(contextInfo, clip(hit.Content, 150))
		}
		answerPrompt := fmt.Sprintf(
			"Question: %s\n\nRelevant information:\n%s\n\nProvide detailed answer:",
			question, strings.Join(contextInfo, "\n"))
		answer, err := client.Generate(ctx, answerPrompt, model.Options{})
		if err != nil {
			continue // skip unanswerable questions, keep researching
		}
		out = append(out, fmt.Sprintf("   Answered Q%d", i+1))
		answers = append(answers, fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, question, i+1, answer))
	}

	out = append(out, "", "Step 4: Synthesizing comprehensive report...", "")
	var sourceLines []string
	for i, src := range sources {
		if i == 3 {
			break
		}
		sourceLines = append(sourceLines, "- "+clip(src.Content, 200))
	}
	synthesisPrompt := fmt.Sprintf(
		"Research topic: %s\n\nSources consulted:\n%s\n\nResearch findings:\n%s\n\n"+
			"Synthesize a comprehensive, well-structured report with:\n"+
			"1. Executive summary\n2. Key findings\n3. Detailed analysis\n4. Conclusion\n\nReport:",
		topic, strings.Join(sourceLines, "\n"), strings.Join(answers, "\n"))
	synthesis, err := client.Generate(ctx, synthesisPrompt, model.Options{})
	if err != nil {
		return "", err
	}

	out = append(out, strings.Repeat("=", 60), synthesis)
	return strings.Join(out, "\n"), nil
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
