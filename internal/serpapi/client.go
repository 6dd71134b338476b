package serpapi

import (
	"context"
	"fmt"
	"log"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/search"
	g "github.com/serpapi/google-search-results-golang"
)

// fetchFunc runs one SerpApi query and returns the decoded JSON
type fetchFunc func(params map[string]string, apiKey string) (map[string]interface{}, error)

// Client is a wrapper around the SerpApi search service
type Client struct {
	apiKey     string
	maxResults int
	fetch      fetchFunc
}

// NewClient creates a new SerpApiClient
func NewClient(apiKey string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}
	return &Client{
		apiKey:     apiKey,
		maxResults: maxResults,
		fetch:      googleSearch,
	}
}

func googleSearch(params map[string]string, apiKey string) (map[string]interface{}, error) {
	s := g.NewGoogleSearch(params, apiKey)
	return s.GetJSON()
}

// Name returns the provider identifier
func (c *Client) Name() dispatch.Name {
	return dispatch.SerpAPI
}

// Call performs a Google search via SerpApi and returns organic results
func (c *Client) Call(_ context.Context, in dispatch.Input) dispatch.Result {
	query, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}
	if c.apiKey == "" {
		return dispatch.Failure(fmt.Errorf("%w: SerpApi API key is not set", dispatch.ErrNetwork))
	}

	parameter := map[string]string{
		"engine":        "google",
		"q":             query,
		"google_domain": "google.com",
		"gl":            "us",
		"hl":            "en",
	}

	log.Printf("[SerpApi] Searching for: %q", query)
	results, err := c.fetch(parameter, c.apiKey)
	if err != nil {
		return dispatch.Failure(fmt.Errorf("%w: serpapi search failed: %v", dispatch.ErrNetwork, err))
	}

	return ParseResponse(results, c.maxResults)
}

// ParseResponse focuses on the organic_results node of a SerpApi payload
func ParseResponse(p dispatch.Payload, limit int) dispatch.Result {
	if msg := dispatch.String(p, "error"); msg != "" {
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrSchema, msg))
	}

	organicResults, ok := p["organic_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No organic_results found in response")
		return dispatch.Failure(fmt.Errorf("%w: no search results found", dispatch.ErrNotFound))
	}

	articles := search.Articles(organicResults, "title", "link", "snippet", "serpapi")
	log.Printf("[SerpApi] Found %d organic results", len(articles))
	return search.Result(articles, limit)
}
