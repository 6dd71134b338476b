package ai

// Kind selects the request shape a provider speaks
type Kind string

const (
	// KindGemini is the Google generateContent API (key as query parameter)
	KindGemini Kind = "gemini"
	// KindOpenAI is any OpenAI-compatible chat completions API (bearer token)
	KindOpenAI Kind = "openai"
)

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	Name           string
	Kind           Kind
	BaseURL        string
	APIKey         string
	Model          string
	MaxPromptChars int
	MaxTokens      int
}
