// Package wikipedia looks up encyclopedia summaries through the MediaWiki
// action API.
//
// A lookup has three outcomes: the page exists and its intro is returned
// truncated to a number of sentences, the title is a disambiguation page and
// the candidate titles are reported, or no page matches.
package wikipedia

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/deepresearch/internal/dispatch"
)

// NotFoundMessage is the fixed text of a failed lookup
const NotFoundMessage = "no encyclopedia page found"

const (
	defaultSentences  = 3
	defaultCandidates = 10
)

// Config holds the lookup settings
type Config struct {
	// Language selects the wiki, e.g. "en" for en.wikipedia.org
	Language string
	// Sentences is the number of sentences kept from the summary
	Sentences int
	// MaxCandidates caps the titles listed for an ambiguous lookup
	MaxCandidates int
	// Endpoint overrides the api.php URL derived from Language
	Endpoint string
}

// Client is a Wikipedia summary client
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new Wikipedia client
func NewClient(cfg Config) *Client {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Sentences <= 0 {
		cfg.Sentences = defaultSentences
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultCandidates
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://" + cfg.Language + ".wikipedia.org/w/api.php"
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() dispatch.Name {
	return dispatch.Encyclopedia
}

// Call looks the query up as a page title
func (c *Client) Call(ctx context.Context, in dispatch.Input) dispatch.Result {
	title, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}

	log.Printf("[Wikipedia] Looking up: %q", title)
	payload, err := c.get(ctx, url.Values{
		"prop":        {"extracts|pageprops"},
		"ppprop":      {"disambiguation"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"titles":      {title},
	})
	if err != nil {
		return dispatch.Failure(err)
	}

	page, err := ParsePage(payload)
	if err != nil {
		return dispatch.Failure(err)
	}

	switch {
	case page.Missing:
		log.Printf("[Wikipedia] No page for %q", title)
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrNotFound, NotFoundMessage))

	case page.Disambiguation:
		log.Printf("[Wikipedia] %q is ambiguous, fetching candidates", page.Title)
		payload, err := c.get(ctx, url.Values{
			"prop":        {"revisions|links"},
			"rvprop":      {"content"},
			"rvslots":     {"main"},
			"plnamespace": {"0"},
			"pllimit":     {"max"},
			"titles":      {page.Title},
		})
		if err != nil {
			return dispatch.Failure(err)
		}

		// bullets keep the page order; the link list is alphabetical
		candidates := ParseCandidates(ParseWikitext(payload))
		if len(candidates) == 0 {
			candidates = ParseLinks(payload)
		}
		return Ambiguous(page.Title, candidates, c.cfg.MaxCandidates)
	}

	return Summary(page, c.cfg.Sentences)
}

func (c *Client) get(ctx context.Context, params url.Values) (dispatch.Payload, error) {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", dispatch.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "deepresearch/1.0 (https://github.com/amityadav/deepresearch)")

	return dispatch.DoJSON(c.client, req)
}

// Page is the relevant part of a MediaWiki query result
type Page struct {
	Title          string
	Extract        string
	Missing        bool
	Disambiguation bool
}

// ParsePage reads the first page of a formatversion=2 query response.
func ParsePage(p dispatch.Payload) (Page, error) {
	if msg := dispatch.String(p, "error", "info"); msg != "" {
		return Page{}, fmt.Errorf("%w: %s", dispatch.ErrSchema, msg)
	}

	pages := dispatch.List(p, "query", "pages")
	if len(pages) == 0 {
		return Page{}, fmt.Errorf("%w: response has no pages", dispatch.ErrSchema)
	}

	first := pages[0]
	page := Page{
		Title:   dispatch.String(first, "title"),
		Extract: strings.TrimSpace(dispatch.String(first, "extract")),
	}
	_, page.Missing = dispatch.Lookup(first, "missing")
	if !page.Missing {
		_, page.Missing = dispatch.Lookup(first, "invalid")
	}
	_, page.Disambiguation = dispatch.Lookup(first, "pageprops", "disambiguation")
	return page, nil
}

// ParseLinks returns the article titles linked from the first page.
func ParseLinks(p dispatch.Payload) []string {
	var titles []string
	for _, page := range dispatch.List(p, "query", "pages") {
		for _, link := range dispatch.List(page, "links") {
			if t := dispatch.String(link, "title"); t != "" {
				titles = append(titles, t)
			}
		}
	}
	return titles
}

// ParseWikitext returns the current wikitext of the first page.
func ParseWikitext(p dispatch.Payload) string {
	pages := dispatch.List(p, "query", "pages")
	if len(pages) == 0 {
		return ""
	}
	return dispatch.String(pages[0], "revisions", 0, "slots", "main", "content")
}

// Summary turns a found page into a result.
func Summary(page Page, sentences int) dispatch.Result {
	if page.Extract == "" {
		return dispatch.Failure(fmt.Errorf("%w: page %q has no summary text", dispatch.ErrSchema, page.Title))
	}
	return dispatch.Success(Truncate(page.Extract, sentences))
}

// Ambiguous reports the candidate titles of a disambiguation page. With no
// candidates the page itself is listed so the message always names one.
func Ambiguous(title string, candidates []string, limit int) dispatch.Result {
	if len(candidates) == 0 {
		candidates = []string{title}
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return dispatch.Failure(fmt.Errorf("%w: %q may refer to: %s",
		dispatch.ErrAmbiguous, title, strings.Join(candidates, ", ")))
}
