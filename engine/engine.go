// Package engine orchestrates the agentic context loop: retrieve relevant
// bullets, prompt the model, stream the answer, parse it, reflect on it,
// and curate the resulting insights back into memory.
package engine

import (
	"context"
	"log"
	"strings"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/memory"
	"github.com/acelabs/ace-go-sdk/model"
	"github.com/acelabs/ace-go-sdk/parse"
	"github.com/acelabs/ace-go-sdk/tools"
)

// DefaultRetrieveLimit caps how many bullets are injected per query.
const DefaultRetrieveLimit = 10

// Generator produces trajectories by prompting the model with retrieved
// context.
type Generator struct {
	client model.Client
}

// NewGenerator creates a generator over the given collaborator.
func NewGenerator(client model.Client) *Generator {
	return &Generator{client: client}
}

// Trajectory runs one blocking generation pass and parses the result.
func (g *Generator) Trajectory(ctx context.Context, query string, state core.ContextState) (core.Trajectory, error) {
	bullets := memory.Retrieve(state, query, DefaultRetrieveLimit)
	resp, err := g.client.Generate(ctx, buildQueryPrompt(query, bullets), model.Options{})
	if err != nil {
		return core.Trajectory{}, err
	}
	return parse.Trajectory(query, resp), nil
}

// Reflector distills insights from completed trajectories.
type Reflector struct {
	client model.Client
}

// NewReflector creates a reflector over the given collaborator.
func NewReflector(client model.Client) *Reflector {
	return &Reflector{client: client}
}

// Reflect asks the model for lessons learned and parses them; the
// trajectory's query becomes the insights' source id.
func (r *Reflector) Reflect(ctx context.Context, t core.Trajectory) ([]core.Insight, error) {
	resp, err := r.client.Generate(ctx, buildReflectionPrompt(t), model.Options{})
	if err != nil {
		return nil, err
	}
	return parse.Insights(resp, t.Query), nil
}

// Engine sequences Generate, Reflect, and Curate over one shared context
// memory. One query is processed end to end at a time; the only suspension
// point is the model call. Failed model calls surface their error and leave
// the memory (and its version) untouched.
type Engine struct {
	client    model.Client
	generator *Generator
	reflector *Reflector
	curator   *memory.Curator
	search    *tools.SearchTool
	thinking  tools.ThinkingTool
	research  *tools.ResearchTool
	limit     int
}

// Option configures the engine.
type Option func(*Engine)

// WithCurator supplies a pre-configured curator (for example one wired to a
// semantic index).
func WithCurator(c *memory.Curator) Option {
	return func(e *Engine) {
		e.curator = c
	}
}

// WithWebSearch enables the web half of the search tool.
func WithWebSearch(enabled bool) Option {
	return func(e *Engine) {
		e.search.EnableWebSearch = enabled
	}
}

// WithSemanticIndex lets the search tool consult a semantic view of the
// bullets. Pair with a curator created via memory.WithIndex so the view
// stays populated.
func WithSemanticIndex(idx memory.Index) Option {
	return func(e *Engine) {
		e.search.Index = idx
	}
}

// WithRetrieveLimit overrides how many bullets a query retrieves.
func WithRetrieveLimit(limit int) Option {
	return func(e *Engine) {
		e.limit = limit
	}
}

// New creates an engine over the given model collaborator.
func New(client model.Client, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		generator: NewGenerator(client),
		reflector: NewReflector(client),
		curator:   memory.NewCurator(),
		search:    tools.NewSearchTool(false),
		limit:     DefaultRetrieveLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.research = tools.NewResearchTool(e.search)
	return e
}

// Initialize probes the model collaborator for readiness.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := e.client.Ping(ctx); err != nil {
		log.Printf("[ENGINE] Initialization failed: %v", err)
		return err
	}
	log.Printf("[ENGINE] Initialized")
	return nil
}

// ProcessQuery runs the full loop for one query. Response chunks are
// forwarded to sink (which may be nil) as they arrive while the full text
// is accumulated for parsing and curation; the sink and the accumulator see
// the same chunks in the same order and stop at the same point on error.
//
// On any model failure the error is returned, nothing is curated, and the
// memory version does not move; chunks already delivered to the sink are
// not retracted. On success the parsed trajectory is returned after its
// insights have been folded into memory.
func (e *Engine) ProcessQuery(ctx context.Context, query string, sink func(chunk string)) (core.Trajectory, error) {
	state := e.curator.Snapshot()

	// Continuation-style queries replay the latest conversational bullet
	// instead of a fresh retrieval.
	var bullets []core.Bullet
	if isContinuation(query) {
		if b, ok := e.curator.LatestConversation(); ok {
			bullets = []core.Bullet{b}
		}
	} else {
		bullets = memory.Retrieve(state, query, e.limit)
	}
	log.Printf("[ENGINE] Retrieved %d bullet(s) for query", len(bullets))

	full, err := e.client.GenerateStream(ctx, buildQueryPrompt(query, bullets), model.Options{}, sink)
	if err != nil {
		return core.Trajectory{}, err
	}

	trajectory := parse.Trajectory(query, full)

	insights, err := e.reflector.Reflect(ctx, trajectory)
	if err != nil {
		// The answer already streamed; surface the reflection failure
		// without touching memory.
		return trajectory, err
	}

	delta := memory.DeltaFromInsights(insights)
	e.curator.ApplyDelta(ctx, delta)
	return trajectory, nil
}

// LearnFromInteraction unconditionally curates a raw query/response pair as
// a conversational bullet, skipping generation and reflection. It cannot
// fail observably.
func (e *Engine) LearnFromInteraction(ctx context.Context, query, response string) {
	e.curator.LearnConversation(ctx, query, response)
}

// ContextStats summarizes the current memory.
func (e *Engine) ContextStats() core.ContextStats {
	return e.curator.Stats()
}

// Snapshot exposes a read-only copy of the memory for tools and callers.
func (e *Engine) Snapshot() core.ContextState {
	return e.curator.Snapshot()
}

// Think runs the deep thinking tool against the query.
func (e *Engine) Think(ctx context.Context, query string) (string, error) {
	return e.thinking.Think(ctx, query, e.client)
}

// Search looks the query up across context, semantic, and web sources.
func (e *Engine) Search(ctx context.Context, query string) []tools.SearchResult {
	return e.search.Search(ctx, query, e.curator.Snapshot())
}

// Research runs the multi-step research tool on the topic.
func (e *Engine) Research(ctx context.Context, topic string) (string, error) {
	return e.research.Research(ctx, topic, e.client, e.curator.Snapshot())
}

// isContinuation reports whether the query asks to continue the previous
// exchange rather than start a new retrieval.
func isContinuation(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if strings.HasPrefix(q, "continue") {
		return true
	}
	switch q {
	case "go on", "keep going", "more", "tell me more":
		return true
	}
	return false
}
