// Package tools provides the auxiliary tools exposed alongside the query
// loop: deep thinking, context/web search, and multi-step research.
package tools

import (
	"context"
	"fmt"

	"github.com/acelabs/ace-go-sdk/model"
)

// ThinkingTool runs an extended step-by-step reasoning pass through the
// model collaborator with the deep-reasoning option.
type ThinkingTool struct{}

// Think asks the model to reason about the query in depth.
func (ThinkingTool) Think(ctx context.Context, query string, client model.Client) (string, error) {
	prompt := fmt.Sprintf("Think deeply about this query step by step:\n\n"+
		"Query: %s\n\n"+
		"Provide detailed reasoning:\n"+
		"1. Break down the problem\n"+
		"2. Consider multiple approaches\n"+
		"3. Analyze pros and cons\n"+
		"4. Reach conclusion\n\n"+
		"Thinking process:", query)
	return client.Generate(ctx, prompt, model.Options{DeepReasoning: true})
}
