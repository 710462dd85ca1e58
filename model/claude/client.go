// Package claude implements the model collaborator against the Anthropic
// API.
package claude

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/acelabs/ace-go-sdk/model"
)

// Config holds the Anthropic connection and generation defaults.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// Client talks to the Anthropic Messages API. Safe for concurrent use.
type Client struct {
	api       *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New creates a client; Model and MaxTokens fall back to sensible defaults.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	api := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{
		api:       &api,
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
	}
}

// Ping verifies the client is usable. The Messages API has no health
// endpoint, so this only checks that credentials were supplied; the first
// generation surfaces any deeper problem.
func (c *Client) Ping(ctx context.Context) error {
	if c.api == nil {
		return model.NewError(model.KindConnection, "client not configured", nil)
	}
	return nil
}

// Generate runs a single blocking completion.
func (c *Client) Generate(ctx context.Context, prompt string, opts model.Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, model.Timeout(opts))
	defer cancel()

	resp, err := c.api.Messages.New(ctx, c.params(prompt, opts))
	if err != nil {
		return "", classify(err, false)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// GenerateStream streams the completion, forwarding each text delta to
// onChunk while accumulating the full response.
func (c *Client) GenerateStream(ctx context.Context, prompt string, opts model.Options, onChunk func(string)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, model.Timeout(opts))
	defer cancel()

	stream := c.api.Messages.NewStreaming(ctx, c.params(prompt, opts))
	defer stream.Close()

	var buf strings.Builder
	for stream.Next() {
		event := stream.Current()
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				buf.WriteString(delta.Text)
				if onChunk != nil {
					onChunk(delta.Text)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return buf.String(), classify(err, buf.Len() > 0)
	}
	return buf.String(), nil
}

func (c *Client) params(prompt string, opts model.Options) anthropic.MessageNewParams {
	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	return params
}

// classify maps an SDK error onto the collaborator taxonomy. A failure
// after partial output is a stream failure regardless of cause.
func classify(err error, partial bool) *model.Error {
	if partial {
		return model.NewError(model.KindStream, "stream interrupted", err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection"), strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return model.NewError(model.KindConnection, "anthropic api unreachable", err)
	default:
		return model.NewError(model.KindBackend, "anthropic api error", err)
	}
}
