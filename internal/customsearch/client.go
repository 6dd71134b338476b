package customsearch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/search"
)

const defaultBaseURL = "https://www.googleapis.com"

// Client is a Google Custom Search JSON API client
type Client struct {
	apiKey     string
	engineID   string
	baseURL    string
	maxResults int
	client     *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API host
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMaxResults sets how many results are returned
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a new Custom Search client
func NewClient(apiKey, engineID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		engineID:   engineID,
		baseURL:    defaultBaseURL,
		maxResults: search.DefaultMaxResults,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier
func (c *Client) Name() dispatch.Name {
	return dispatch.WebSearch
}

// Call implements dispatch.Adapter
func (c *Client) Call(ctx context.Context, in dispatch.Input) dispatch.Result {
	query, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}

	req, err := c.newRequest(ctx, query)
	if err != nil {
		return dispatch.Failure(err)
	}

	log.Printf("[CustomSearch] Searching for: %q (max %d results)", query, c.maxResults)
	payload, err := dispatch.DoJSON(c.client, req)
	if err != nil {
		return dispatch.Failure(err)
	}

	return ParseResponse(payload, c.maxResults)
}

func (c *Client) newRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("num", strconv.Itoa(min(c.maxResults, 10)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customsearch/v1?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", dispatch.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// ParseResponse converts a decoded Custom Search payload into a result.
func ParseResponse(p dispatch.Payload, limit int) dispatch.Result {
	if msg := dispatch.ProviderError(p); msg != "" {
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrSchema, msg))
	}

	items := dispatch.List(p, "items")
	if items == nil && !dispatch.Has(p, "searchInformation") && !dispatch.Has(p, "queries") {
		return dispatch.Failure(fmt.Errorf("%w: response has no items", dispatch.ErrSchema))
	}

	articles := search.Articles(items, "title", "link", "snippet", "google")
	log.Printf("[CustomSearch] Found %d results", len(articles))
	return search.Result(articles, limit)
}
