package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	HTTPAddr string

	// Web search (Google Custom Search JSON API)
	GoogleSearchAPIKey   string
	GoogleSearchEngineID string
	GoogleSearchBaseURL  string
	SearchMaxResults     int

	SerpAPIKey   string
	TavilyAPIKey string

	// Encyclopedia
	WikipediaLang       string
	WikipediaSentences  int
	WikipediaCandidates int

	// LLM
	LLMKind        string
	LLMAPIKey      string
	LLMModel       string
	LLMBaseURL     string
	MaxPromptChars int
	MaxTokens      int

	// Documents and pages
	SupadataAPIKey string
	MaxPageChars   int
	MaxUploadBytes int64

	ExportTitle string
	// ExportFontFile is a TrueType font for PDF output, needed for scripts
	// the bundled Go font lacks (CJK, Arabic, ...)
	ExportFontFile string
}

// Load loads configuration from environment variables
func Load() Config {
	cfg := Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		GoogleSearchAPIKey:   os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleSearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		GoogleSearchBaseURL:  os.Getenv("GOOGLE_SEARCH_BASE_URL"),
		SearchMaxResults:     getEnvInt("SEARCH_MAX_RESULTS", 5),
		SerpAPIKey:           os.Getenv("SERPAPI_API_KEY"),
		TavilyAPIKey:         os.Getenv("TAVILY_API_KEY"),
		WikipediaLang:        getEnv("WIKIPEDIA_LANG", "en"),
		WikipediaSentences:   getEnvInt("WIKIPEDIA_SENTENCES", 3),
		WikipediaCandidates:  getEnvInt("WIKIPEDIA_CANDIDATES", 10),
		LLMKind:              getEnv("LLM_KIND", "gemini"),
		LLMAPIKey:            os.Getenv("LLM_API_KEY"),
		LLMModel:             os.Getenv("LLM_MODEL"),
		LLMBaseURL:           os.Getenv("LLM_BASE_URL"),
		MaxPromptChars:       getEnvInt("MAX_PROMPT_CHARS", 24000),
		MaxTokens:            getEnvInt("LLM_MAX_TOKENS", 0),
		SupadataAPIKey:       os.Getenv("SUPADATA_API_KEY"),
		MaxPageChars:         getEnvInt("MAX_PAGE_CHARS", 50000),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		ExportTitle:          getEnv("EXPORT_TITLE", "Research result"),
		ExportFontFile:       os.Getenv("EXPORT_FONT_FILE"),
	}

	// Older deployments only set a provider specific key
	if cfg.LLMAPIKey == "" {
		switch cfg.LLMKind {
		case "gemini":
			cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
		case "groq":
			cfg.LLMAPIKey = os.Getenv("GROQ_API_KEY")
		case "cerebras":
			cfg.LLMAPIKey = os.Getenv("CEREBRAS_API_KEY")
		case "openai":
			cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
