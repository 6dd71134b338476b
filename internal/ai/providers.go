package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/textutil"
	"github.com/amityadav/deepresearch/prompts"
	"google.golang.org/genai"
)

const defaultMaxPromptChars = 24000 // ~6000 tokens

// BaseProvider implements the LLM adapter for Gemini and OpenAI-compatible APIs
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	if config.MaxPromptChars == 0 {
		config.MaxPromptChars = defaultMaxPromptChars
	}
	if config.Kind == "" {
		config.Kind = KindOpenAI
	}
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

// SetLimits overrides the prompt truncation and output token limits.
// Zero values leave the current setting in place.
func (p *BaseProvider) SetLimits(maxPromptChars, maxTokens int) {
	if maxPromptChars > 0 {
		p.config.MaxPromptChars = maxPromptChars
	}
	if maxTokens > 0 {
		p.config.MaxTokens = maxTokens
	}
}

// Name returns the provider identifier
func (p *BaseProvider) Name() dispatch.Name {
	return dispatch.LLM
}

// DisplayName returns the backend name, e.g. "Gemini"
func (p *BaseProvider) DisplayName() string {
	return p.config.Name
}

// Call wraps the query in the research prompt and asks the model for a completion
func (p *BaseProvider) Call(ctx context.Context, in dispatch.Input) dispatch.Result {
	query, err := in.QueryText()
	if err != nil {
		return dispatch.Failure(err)
	}
	prompt := prompts.ResearchPrompt(textutil.TruncateToLimit(query, p.config.MaxPromptChars))
	return p.GenerateCompletion(ctx, prompt)
}

// GenerateCompletion sends a raw prompt and normalizes the reply
func (p *BaseProvider) GenerateCompletion(ctx context.Context, prompt string) dispatch.Result {
	req, err := p.newRequest(ctx, prompt)
	if err != nil {
		return dispatch.Failure(err)
	}

	log.Printf("[%s.Completion] Sending request (model: %s, ~%d prompt tokens)...", p.config.Name, p.config.Model, EstimateTokens(prompt))
	payload, err := dispatch.DoJSON(p.client, req)
	if err != nil {
		return dispatch.Failure(err)
	}

	res := ParseCompletion(payload)
	if res.OK() {
		log.Printf("[%s.Completion] Success, response length: %d", p.config.Name, len(res.Text))
	}
	return res
}

// generateRequest is the Gemini generateContent body
type generateRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig,omitempty"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []textMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type textMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *BaseProvider) newRequest(ctx context.Context, prompt string) (*http.Request, error) {
	var (
		endpoint string
		body     any
	)

	switch p.config.Kind {
	case KindGemini:
		endpoint = strings.TrimRight(p.config.BaseURL, "/") +
			"/v1beta/models/" + url.PathEscape(p.config.Model) + ":generateContent?key=" + url.QueryEscape(p.config.APIKey)
		gr := generateRequest{Contents: genai.Text(prompt)}
		if p.config.MaxTokens > 0 {
			gr.GenerationConfig = &genai.GenerationConfig{MaxOutputTokens: int32(p.config.MaxTokens)}
		}
		body = gr
	default:
		endpoint = p.config.BaseURL
		body = chatRequest{
			Model:     p.config.Model,
			Messages:  []textMessage{{Role: "user", Content: prompt}},
			MaxTokens: p.config.MaxTokens,
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", dispatch.ErrSchema, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", dispatch.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.config.Kind != KindGemini {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}
	return req, nil
}

// ParseCompletion unwraps the completion text from any of the response
// shapes seen across providers and API versions:
//
//	candidates[0].content.parts[*].text    (Gemini)
//	choices[0].message.content             (OpenAI chat, string or parts)
//	choices[0].text                        (legacy completions)
//	content[*].text                        (Anthropic messages)
//	text / output_text                     (flat responses)
func ParseCompletion(p dispatch.Payload) dispatch.Result {
	if msg := dispatch.ProviderError(p); msg != "" {
		return dispatch.Failure(fmt.Errorf("%w: %s", dispatch.ErrSchema, msg))
	}

	if reason := dispatch.String(p, "promptFeedback", "blockReason"); reason != "" {
		return dispatch.Failure(fmt.Errorf("%w: prompt blocked (%s)", dispatch.ErrSchema, reason))
	}

	if candidates, ok := p["candidates"].([]any); ok {
		if len(candidates) == 0 {
			return dispatch.Failure(fmt.Errorf("%w: no candidates returned", dispatch.ErrSchema))
		}
		if text := joinParts(dispatch.List(candidates[0], "content", "parts")); text != "" {
			return dispatch.Success(text)
		}
		if reason := dispatch.String(candidates[0], "finishReason"); reason != "" {
			return dispatch.Failure(fmt.Errorf("%w: empty completion (finish reason %s)", dispatch.ErrSchema, reason))
		}
		return dispatch.Failure(fmt.Errorf("%w: candidate has no text parts", dispatch.ErrSchema))
	}

	if choices := dispatch.List(p, "choices"); len(choices) > 0 {
		content, _ := dispatch.Lookup(choices[0], "message", "content")
		switch c := content.(type) {
		case string:
			if text := strings.TrimSpace(c); text != "" {
				return dispatch.Success(text)
			}
		case []any:
			if text := joinParts(c); text != "" {
				return dispatch.Success(text)
			}
		}
		if text := strings.TrimSpace(dispatch.String(choices[0], "text")); text != "" {
			return dispatch.Success(text)
		}
		return dispatch.Failure(fmt.Errorf("%w: choice has no content", dispatch.ErrSchema))
	}

	if content := dispatch.List(p, "content"); len(content) > 0 {
		if text := joinParts(content); text != "" {
			return dispatch.Success(text)
		}
		return dispatch.Failure(fmt.Errorf("%w: content has no text blocks", dispatch.ErrSchema))
	}

	for _, key := range []string{"text", "output_text"} {
		if text := strings.TrimSpace(dispatch.String(p, key)); text != "" {
			return dispatch.Success(text)
		}
	}

	if msg := dispatch.String(p, "message"); msg != "" {
		return dispatch.Failure(fmt.Errorf("%w: unexpected response shape: %s", dispatch.ErrSchema, msg))
	}
	return dispatch.Failure(fmt.Errorf("%w: unexpected response shape", dispatch.ErrSchema))
}

func joinParts(parts []any) string {
	var texts []string
	for _, part := range parts {
		if t := strings.TrimSpace(dispatch.String(part, "text")); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n")
}
