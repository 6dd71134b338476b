package dispatch

import (
	"context"
	"strings"
)

// Name identifies a provider adapter (e.g., "websearch", "wikipedia")
type Name string

const (
	WebSearch    Name = "websearch"
	SerpAPI      Name = "serpapi"
	Tavily       Name = "tavily"
	Encyclopedia Name = "wikipedia"
	LLM          Name = "llm"
	Document     Name = "document"
	WebPage      Name = "webpage"
)

// ParseName normalizes user supplied provider names. Unknown names are
// returned as-is and rejected later by the Dispatcher.
func ParseName(s string) Name {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "google", "search", "web":
		return WebSearch
	case "wiki", "encyclopedia":
		return Encyclopedia
	case "gemini", "groq", "ai":
		return LLM
	case "file", "upload":
		return Document
	case "url", "page", "scrape":
		return WebPage
	}
	return Name(s)
}

// Upload is a user supplied document
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Input is everything an adapter may need for one call
type Input struct {
	Query    string
	Document *Upload
}

// Adapter is the interface all provider integrations must implement.
// Call never returns a Go error: every outcome is encoded in the Result.
type Adapter interface {
	// Name returns the provider identifier
	Name() Name

	// Call runs one request against the provider
	Call(ctx context.Context, in Input) Result
}

// QueryText returns the trimmed query or ErrEmptyQuery.
func (in Input) QueryText() (string, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}
