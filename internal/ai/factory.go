package ai

import (
	"fmt"
	"strings"

	"github.com/amityadav/deepresearch/internal/ai/models"
)

// NewLLMProvider creates a provider instance based on the provider name.
// Supported providers: "gemini", "groq", "cerebras", "openai".
// An empty modelID selects the provider's default model; an empty baseURL
// selects the provider's public endpoint.
func NewLLMProvider(providerName, apiKey, modelID, baseURL string) (*BaseProvider, error) {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}

	switch strings.ToLower(providerName) {
	case "gemini", "google":
		return NewBaseProvider(ProviderConfig{
			Name:    "Gemini",
			Kind:    KindGemini,
			BaseURL: pick(baseURL, "https://generativelanguage.googleapis.com"),
			APIKey:  apiKey,
			Model:   pick(modelID, models.TaskResearchModelGemini),
		}), nil
	case "groq":
		return NewBaseProvider(ProviderConfig{
			Name:    "Groq",
			Kind:    KindOpenAI,
			BaseURL: pick(baseURL, "https://api.groq.com/openai/v1/chat/completions"),
			APIKey:  apiKey,
			Model:   pick(modelID, models.TaskResearchModelGroq),
		}), nil
	case "cerebras":
		return NewBaseProvider(ProviderConfig{
			Name:    "Cerebras",
			Kind:    KindOpenAI,
			BaseURL: pick(baseURL, "https://api.cerebras.ai/v1/chat/completions"),
			APIKey:  apiKey,
			Model:   pick(modelID, models.ModelCerebrasGptOss120b),
		}), nil
	case "openai":
		return NewBaseProvider(ProviderConfig{
			Name:    "OpenAI",
			Kind:    KindOpenAI,
			BaseURL: pick(baseURL, "https://api.openai.com/v1/chat/completions"),
			APIKey:  apiKey,
			Model:   pick(modelID, models.ModelOpenAIGpt4oMini),
		}), nil
	default:
		// Fail fast: don't silently default to an unknown provider
		return nil, fmt.Errorf("unsupported AI provider: %s (supported: gemini, groq, cerebras, openai)", providerName)
	}
}
