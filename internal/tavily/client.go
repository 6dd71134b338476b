package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/search"
)

const apiURL = "https://api.tavily.com/search"

// Client is a Tavily Search API client
type Client struct {
	apiKey     string
	url        string
	maxResults int
	client     *http.Client
}

// NewClient creates a new Tavily API client
func NewClient(apiKey string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}
	return &Client{
		apiKey:     apiKey,
		url:        apiURL,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SetURL points the client at a different endpoint
func (c *Client) SetURL(u string) {
	c.url = u
}

// SearchRequest represents the Tavily search request payload
type SearchRequest struct {
	Query         string `json:"query"`
	APIKey        string `json:"api_key"`
	SearchDepth   string `json:"search_depth,omitempty"` // "basic" or "advanced"
	Topic         string `json:"topic,omitempty"`        // "general" or "news"
	IncludeAnswer bool   `json:"include_answer,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
}

// Name returns the provider identifier
func (c *Client) Name() dispatch.Name {
	return dispatch.Tavily
}

// Call performs a search using the Tavily API
func (c *Client) Call(ctx context.Context, in dispatch.Input) dispatch.Result {
	query, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}

	jsonBody, err := json.Marshal(SearchRequest{
		Query:       query,
		APIKey:      c.apiKey,
		SearchDepth: "basic",
		Topic:       "general",
		MaxResults:  c.maxResults,
	})
	if err != nil {
		return dispatch.Failure(fmt.Errorf("%w: failed to marshal request: %v", dispatch.ErrSchema, err))
	}

	log.Printf("[Tavily] Searching for: %q (max %d results)", query, c.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return dispatch.Failure(fmt.Errorf("%w: failed to create request: %v", dispatch.ErrNetwork, err))
	}
	req.Header.Set("Content-Type", "application/json")

	payload, err := dispatch.DoJSON(c.client, req)
	if err != nil {
		return dispatch.Failure(err)
	}

	return ParseResponse(payload, c.maxResults)
}

// ParseResponse converts a decoded Tavily payload into a result
func ParseResponse(p dispatch.Payload, limit int) dispatch.Result {
	if msg := dispatch.ProviderError(p); msg != "" {
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrSchema, msg))
	}

	results, ok := p["results"].([]any)
	if !ok {
		return dispatch.Failure(fmt.Errorf("%w: response has no results field", dispatch.ErrSchema))
	}

	articles := search.Articles(results, "title", "url", "content", "tavily")
	log.Printf("[Tavily] Found %d results", len(articles))
	return search.Result(articles, limit)
}
