package models

const (
	// === Gemini Models ===
	ModelGeminiFlash = "gemini-2.0-flash"

	// === Groq Models ===
	ModelGroqGptOss120b = "openai/gpt-oss-120b"

	// === Cerebras Models ===
	ModelCerebrasGptOss120b = "gpt-oss-120b"

	// === OpenAI Models ===
	ModelOpenAIGpt4oMini = "gpt-4o-mini"
)

const (
	// === Task-Specific Default Models ===

	// TaskResearchModelGemini: default for the Gemini research answer
	TaskResearchModelGemini = ModelGeminiFlash

	// TaskResearchModelGroq: default for OpenAI-compatible research answers
	TaskResearchModelGroq = ModelGroqGptOss120b
)
