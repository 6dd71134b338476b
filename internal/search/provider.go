package search

import (
	"fmt"
	"strings"

	"github.com/amityadav/deepresearch/internal/dispatch"
)

// DefaultMaxResults is used when a search adapter is configured without a limit
const DefaultMaxResults = 5

// Article represents a search result from any provider
type Article struct {
	Title    string
	URL      string
	Snippet  string
	Provider string // "google", "serpapi", "tavily"
}

// Articles converts loosely decoded result items into articles. Items that
// are not objects or lack a title or link are skipped.
func Articles(items []any, titleKey, linkKey, snippetKey, provider string) []Article {
	var articles []Article
	for _, item := range items {
		title := strings.TrimSpace(dispatch.String(item, titleKey))
		link := strings.TrimSpace(dispatch.String(item, linkKey))
		if title == "" || link == "" {
			continue
		}
		articles = append(articles, Article{
			Title:    title,
			URL:      link,
			Snippet:  dispatch.String(item, snippetKey),
			Provider: provider,
		})
	}
	return articles
}

// Format renders at most limit articles as "Title: link" lines.
func Format(articles []Article, limit int) string {
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	lines := make([]string, len(articles))
	for i, a := range articles {
		lines[i] = a.Title + ": " + a.URL
	}
	return strings.Join(lines, "\n")
}

// Result turns a parsed article list into a dispatch result.
func Result(articles []Article, limit int) dispatch.Result {
	if len(articles) == 0 {
		return dispatch.Failure(fmt.Errorf("%w: no search results found", dispatch.ErrNotFound))
	}
	return dispatch.Success(Format(articles, limit))
}
