package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/textutil"
)

const (
	defaultJinaURL     = "https://r.jina.ai/"
	defaultSupadataURL = "https://api.supadata.ai/v1/web/scrape"
	minContentChars    = 100
	defaultMaxChars    = 50000
)

// Config holds scraper settings
type Config struct {
	// SupadataAPIKey enables the Supadata fallback when set
	SupadataAPIKey string
	// MaxChars truncates extracted text
	MaxChars int
	// JinaURL and SupadataURL override the fallback endpoints
	JinaURL     string
	SupadataURL string
}

type Scraper struct {
	cfg    Config
	client *http.Client
}

func NewScraper(cfg Config) *Scraper {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxChars
	}
	if cfg.JinaURL == "" {
		cfg.JinaURL = defaultJinaURL
	}
	if cfg.SupadataURL == "" {
		cfg.SupadataURL = defaultSupadataURL
	}
	return &Scraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider identifier
func (s *Scraper) Name() dispatch.Name {
	return dispatch.WebPage
}

// Call treats the query as a URL and returns the page text
func (s *Scraper) Call(ctx context.Context, in dispatch.Input) dispatch.Result {
	target, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dispatch.Failure(fmt.Errorf("%w: %q is not an http(s) URL", dispatch.ErrSchema, target))
	}

	content, err := s.Scrape(ctx, u.String())
	if err != nil {
		return dispatch.Failure(err)
	}
	return dispatch.Success(textutil.TruncateToLimit(content, s.cfg.MaxChars))
}

// errUnreachable marks attempts that never got an answer from a server
var errUnreachable = errors.New("unreachable")

// method is one way of getting the text of a page
type method struct {
	name   string
	scrape func(context.Context, string) (string, error)
}

func (s *Scraper) methods() []method {
	methods := []method{
		{"direct", s.directScrape},
		// Jina AI Reader renders JS-heavy sites
		{"jina", s.jinaReaderScrape},
	}
	if s.cfg.SupadataAPIKey != "" {
		methods = append(methods, method{"supadata", s.supadataScrape})
	}
	return methods
}

// Scrape fetches the URL and extracts text content. Methods are tried in
// order until one yields more than minContentChars. When none does, the
// longest text any method returned is used. ErrNetwork is reported only
// when no method reached a server.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	log.Printf("[Scraper] Fetching URL: %s", url)

	var (
		best    string
		lastErr error
		reached bool
	)
	for _, m := range s.methods() {
		content, err := m.scrape(ctx, url)
		if err == nil && len(content) > minContentChars {
			return content, nil
		}
		if err != nil {
			log.Printf("[Scraper] %s failed: %v", m.name, err)
			lastErr = err
		} else {
			log.Printf("[Scraper] %s returned only %d characters", m.name, len(content))
		}
		if !errors.Is(err, errUnreachable) {
			reached = true
		}
		if len(content) > len(best) {
			best = content
		}
	}

	switch {
	case best != "":
		log.Printf("[Scraper] Using short content (%d characters)", len(best))
		return best, nil
	case !reached:
		return "", fmt.Errorf("%w: all scraping methods failed: %v", dispatch.ErrNetwork, lastErr)
	case lastErr != nil:
		return "", fmt.Errorf("%w: no readable text found: %v", dispatch.ErrNotFound, lastErr)
	}
	return "", fmt.Errorf("%w: no readable text found", dispatch.ErrNotFound)
}

// statusError classifies a non-200 answer. 5xx means the site or the
// reader service behind it is down.
func statusError(method string, code int, detail string) error {
	err := fmt.Errorf("%s status code error: %d%s", method, code, detail)
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %w", errUnreachable, err)
	}
	return err
}

// directScrape uses goquery to extract content from static HTML
func (s *Scraper) directScrape(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", errUnreachable, err)
	}

	// Browser-like headers to avoid 403 blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch url: %w", errUnreachable, err)
	}
	defer resp.Body.Close()

	log.Printf("[Scraper.Direct] Response status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return "", statusError("direct", resp.StatusCode, "")
	}

	return ExtractHTML(resp.Body)
}

// ExtractHTML returns the readable text of an HTML document. Content
// containers (article, main, ...) are preferred over loose body paragraphs.
func ExtractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	// Remove unwanted elements
	doc.Find("script, style, noscript, nav, footer, header, aside, .sidebar, .advertisement, .ads").Remove()

	var sb strings.Builder
	write := func(minLen int) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) > minLen {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		}
	}

	selectors := []string{"article", "[role='main']", "main", ".post-content", ".article-content", ".entry-content", ".content"}
	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			selection.Find("p, h1, h2, h3, li").Each(write(20))
			break
		}
	}

	// Fallback: all paragraphs and headings
	if sb.Len() == 0 {
		doc.Find("body p, body h1, body h2, body h3, body li").Each(write(0))
	}

	// Last resort: the whole body text
	if sb.Len() == 0 {
		sb.WriteString(strings.Join(strings.Fields(doc.Find("body").Text()), " "))
	}

	return strings.TrimSpace(sb.String()), nil
}

// jinaReaderScrape uses Jina AI Reader to render JS and extract content
func (s *Scraper) jinaReaderScrape(ctx context.Context, url string) (string, error) {
	jinaURL := s.cfg.JinaURL + url
	log.Printf("[Scraper.Jina] Fetching via Jina Reader: %s", jinaURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jinaURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create jina request: %w", errUnreachable, err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: jina request failed: %w", errUnreachable, err)
	}
	defer resp.Body.Close()

	log.Printf("[Scraper.Jina] Response status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return "", statusError("jina", resp.StatusCode, "")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.cfg.MaxChars)*2))
	if err != nil {
		return "", fmt.Errorf("failed to read jina response: %w", err)
	}

	content := strings.TrimSpace(string(body))
	log.Printf("[Scraper.Jina] Successfully extracted %d characters", len(content))
	return content, nil
}

// supadataScrape uses Supadata's web scraping API
func (s *Scraper) supadataScrape(ctx context.Context, targetURL string) (string, error) {
	apiURL := s.cfg.SupadataURL + "?url=" + url.QueryEscape(targetURL)
	log.Printf("[Scraper.Supadata] Fetching: %s", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create supadata request: %w", errUnreachable, err)
	}
	req.Header.Set("x-api-key", s.cfg.SupadataAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: supadata request failed: %w", errUnreachable, err)
	}
	defer resp.Body.Close()

	log.Printf("[Scraper.Supadata] Response status: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", statusError("supadata", resp.StatusCode, " - "+strings.TrimSpace(string(body)))
	}

	// Supadata returns JSON with content field
	var result struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse supadata response: %w", err)
	}
	if result.Content == "" {
		return "", fmt.Errorf("no content in supadata response")
	}

	log.Printf("[Scraper.Supadata] Successfully extracted %d characters from '%s'", len(result.Content), result.Name)
	return result.Content, nil
}
