package tools

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sort"

	"github.com/acelabs/ace-go-sdk/core"
	"github.com/acelabs/ace-go-sdk/memory"
)

// SearchResult is one hit from context, semantic, or web search.
type SearchResult struct {
	Content   string
	Relevance int
	Tags      []string
	Source    string // "context", "semantic", or "web"
	URL       string
}

// MaxSearchResults caps the combined result list.
const MaxSearchResults = 5

const duckDuckGoURL = "https://api.duckduckgo.com/"

// SearchTool looks a query up in the bullet store and, when enabled, on the
// web via the DuckDuckGo instant-answer API. An optional semantic Index
// adds hits that share meaning but not words with the query.
type SearchTool struct {
	EnableWebSearch bool
	Index           memory.Index

	httpClient *http.Client
}

// NewSearchTool creates a search tool; web search is opt-in.
func NewSearchTool(enableWebSearch bool) *SearchTool {
	return &SearchTool{
		EnableWebSearch: enableWebSearch,
		httpClient:      &http.Client{},
	}
}

// SearchContext ranks bullets by raw token overlap with the query.
// Zero-overlap bullets are excluded.
func (s *SearchTool) SearchContext(query string, state core.ContextState) []SearchResult {
	queryWords := memory.Tokenize(query)

	var results []SearchResult
	for _, b := range state.Bullets {
		bulletWords := memory.Tokenize(b.Content)
		overlap := 0
		for w := range queryWords {
			if _, ok := bulletWords[w]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		results = append(results, SearchResult{
			Content:   b.Content,
			Relevance: overlap,
			Tags:      b.Tags,
			Source:    "context",
		})
	}
	sortResults(results)
	return top(results, MaxSearchResults)
}

// SearchWeb queries the DuckDuckGo instant-answer API. Best effort: any
// failure yields an empty result list, never an error.
func (s *SearchTool) SearchWeb(ctx context.Context, query string) []SearchResult {
	if !s.EnableWebSearch {
		return nil
	}

	endpoint := duckDuckGoURL + "?q=" + url.QueryEscape(query) + "&format=json&no_html=1&skip_disambig=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	resp, err := s.client().Do(req)
	if err != nil {
		log.Printf("[SEARCH] Web search failed: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[SEARCH] Web search returned %s", resp.Status)
		return nil
	}

	var answer struct {
		Abstract      string `json:"Abstract"`
		AbstractURL   string `json:"AbstractURL"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil
	}

	var results []SearchResult
	if answer.Abstract != "" {
		results = append(results, SearchResult{
			Content:   answer.Abstract,
			Relevance: 10,
			Source:    "web",
			URL:       answer.AbstractURL,
		})
	}
	for i, topic := range answer.RelatedTopics {
		if i == 3 {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, SearchResult{
			Content:   topic.Text,
			Relevance: 5,
			Source:    "web",
			URL:       topic.FirstURL,
		})
	}
	return results
}

// Search combines context, semantic, and web hits, best first.
func (s *SearchTool) Search(ctx context.Context, query string, state core.ContextState) []SearchResult {
	results := s.SearchContext(query, state)

	if s.Index != nil {
		similar, err := s.Index.Similar(ctx, query, MaxSearchResults)
		if err != nil {
			log.Printf("[SEARCH] Semantic search failed: %v", err)
		}
		for _, b := range similar {
			if containsContent(results, b.Content) {
				continue
			}
			results = append(results, SearchResult{
				Content:   b.Content,
				Relevance: 3,
				Tags:      b.Tags,
				Source:    "semantic",
			})
		}
	}

	results = append(results, s.SearchWeb(ctx, query)...)
	sortResults(results)
	return top(results, MaxSearchResults)
}

func (s *SearchTool) client() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	return http.DefaultClient
}

// sortResults orders by descending relevance, breaking ties by content so
// the order is stable regardless of map iteration.
func sortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Content < results[j].Content
	})
}

func top(results []SearchResult, n int) []SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func containsContent(results []SearchResult, content string) bool {
	for _, r := range results {
		if r.Content == content {
			return true
		}
	}
	return false
}
