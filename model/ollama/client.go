// Package ollama implements the model collaborator against a local Ollama
// daemon's HTTP API.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/acelabs/ace-go-sdk/model"
)

// Config holds the Ollama connection and generation defaults.
type Config struct {
	URL           string
	Model         string
	Temperature   float64
	MaxTokens     int
	ContextWindow int
}

// DefaultConfig targets a local daemon with a small coder model.
func DefaultConfig() Config {
	return Config{
		URL:           "http://localhost:11434",
		Model:         "qwen2.5-coder:1.5b",
		Temperature:   0.7,
		MaxTokens:     256,
		ContextWindow: 2048,
	}
}

// Client talks to one Ollama daemon. Safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
}

// New creates a client; zero config fields fall back to DefaultConfig.
func New(config Config) *Client {
	defaults := DefaultConfig()
	if config.URL == "" {
		config.URL = defaults.URL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Temperature == 0 {
		config.Temperature = defaults.Temperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.ContextWindow == 0 {
		config.ContextWindow = defaults.ContextWindow
	}
	return &Client{config: config, http: &http.Client{}}
}

// Ping probes the daemon's tag listing as a readiness check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+"/api/tags", nil)
	if err != nil {
		return model.NewError(model.KindConnection, "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.NewError(model.KindConnection, "ollama not reachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewError(model.KindBackend, fmt.Sprintf("ollama not available: %s", resp.Status), nil)
	}
	return nil
}

type generateOptions struct {
	Temperature    float64 `json:"temperature"`
	NumPredict     int     `json:"num_predict"`
	NumCtx         int     `json:"num_ctx"`
	EnableThinking bool    `json:"enable_thinking,omitempty"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// generateChunk is one line of the daemon's response, decoded defensively:
// every field may be absent.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generate runs a single blocking completion.
func (c *Client) Generate(ctx context.Context, prompt string, opts model.Options) (string, error) {
	resp, err := c.post(ctx, prompt, opts, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateChunk
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", model.NewError(model.KindBackend, "malformed response", err)
	}
	if out.Error != "" {
		return "", model.NewError(model.KindBackend, out.Error, nil)
	}
	return strings.TrimSpace(out.Response), nil
}

// GenerateStream runs a streaming completion over the daemon's NDJSON
// protocol, forwarding each text chunk to onChunk while accumulating the
// full response.
func (c *Client) GenerateStream(ctx context.Context, prompt string, opts model.Options, onChunk func(string)) (string, error) {
	resp, err := c.post(ctx, prompt, opts, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Tolerate non-JSON noise between objects.
			continue
		}
		if chunk.Error != "" {
			return buf.String(), model.NewError(model.KindStream, chunk.Error, nil)
		}
		if chunk.Response != "" {
			buf.WriteString(chunk.Response)
			if onChunk != nil {
				onChunk(chunk.Response)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return buf.String(), model.NewError(model.KindStream, "stream interrupted", err)
	}
	return buf.String(), nil
}

// post sends a generate request with the call timeout implied by opts.
func (c *Client) post(ctx context.Context, prompt string, opts model.Options, stream bool) (*http.Response, error) {
	maxTokens := c.config.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	contextWindow := c.config.ContextWindow
	if opts.ContextWindow > 0 {
		contextWindow = opts.ContextWindow
	}
	temperature := c.config.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	payload := generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: stream,
		Options: generateOptions{
			Temperature: temperature,
			// The daemon runs on commodity hardware; cap the per-call
			// budget regardless of configuration.
			NumPredict:     min(maxTokens, 128),
			NumCtx:         min(contextWindow, 512),
			EnableThinking: opts.DeepReasoning,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, model.NewError(model.KindConnection, "encode request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, model.Timeout(opts))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, model.NewError(model.KindConnection, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, model.NewError(model.KindConnection, "generation failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return nil, model.NewError(model.KindBackend, fmt.Sprintf("api error: %s", resp.Status), nil)
	}
	// The timeout must cover body consumption; tie the cancel to the body.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	b.cancel()
	return b.ReadCloser.Close()
}
