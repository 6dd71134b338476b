package fx

import (
	"log"

	"github.com/amityadav/deepresearch/internal/ai"
	"github.com/amityadav/deepresearch/internal/config"
	"github.com/amityadav/deepresearch/internal/customsearch"
	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/document"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/amityadav/deepresearch/internal/scraper"
	"github.com/amityadav/deepresearch/internal/serpapi"
	"github.com/amityadav/deepresearch/internal/tavily"
	"github.com/amityadav/deepresearch/internal/wikipedia"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// ProviderModule builds every adapter the configuration allows and
// registers them with the dispatcher
var ProviderModule = fx.Module("providers",
	fx.Provide(
		NewSearchAdapters,
		NewEncyclopediaAdapter,
		NewLLMAdapter,
		NewContentAdapters,
		NewDispatcher,
	),
)

// ExportModule provides the PDF/DOCX exporter
var ExportModule = fx.Module("export",
	fx.Provide(NewExporter),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// Adapters contributes adapters to the "adapters" value group.
// Disabled providers contribute an empty slice.
type Adapters struct {
	fx.Out
	Adapters []dispatch.Adapter `group:"adapters,flatten"`
}

// NewSearchAdapters creates the web search adapters that have credentials
func NewSearchAdapters(cfg config.Config) Adapters {
	var out []dispatch.Adapter

	if cfg.GoogleSearchAPIKey != "" && cfg.GoogleSearchEngineID != "" {
		opts := []customsearch.Option{customsearch.WithMaxResults(cfg.SearchMaxResults)}
		if cfg.GoogleSearchBaseURL != "" {
			opts = append(opts, customsearch.WithBaseURL(cfg.GoogleSearchBaseURL))
		}
		out = append(out, customsearch.NewClient(cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngineID, opts...))
		log.Printf("[FX] Google Custom Search adapter initialized")
	} else {
		log.Printf("[FX] Google Custom Search disabled (GOOGLE_SEARCH_API_KEY / GOOGLE_SEARCH_ENGINE_ID not set)")
	}

	if cfg.SerpAPIKey != "" {
		out = append(out, serpapi.NewClient(cfg.SerpAPIKey, cfg.SearchMaxResults))
		log.Printf("[FX] SerpApi adapter initialized")
	}

	if cfg.TavilyAPIKey != "" {
		out = append(out, tavily.NewClient(cfg.TavilyAPIKey, cfg.SearchMaxResults))
		log.Printf("[FX] Tavily adapter initialized")
	}

	return Adapters{Adapters: out}
}

// NewEncyclopediaAdapter creates the Wikipedia adapter. It needs no credentials.
func NewEncyclopediaAdapter(cfg config.Config) Adapters {
	c := wikipedia.NewClient(wikipedia.Config{
		Language:      cfg.WikipediaLang,
		Sentences:     cfg.WikipediaSentences,
		MaxCandidates: cfg.WikipediaCandidates,
	})
	log.Printf("[FX] Wikipedia adapter initialized (lang: %s)", cfg.WikipediaLang)
	return Adapters{Adapters: []dispatch.Adapter{c}}
}

// NewLLMAdapter creates the LLM adapter when an API key is configured
func NewLLMAdapter(cfg config.Config) (Adapters, error) {
	if cfg.LLMAPIKey == "" {
		log.Printf("[FX] LLM adapter disabled (LLM_API_KEY not set)")
		return Adapters{}, nil
	}

	p, err := ai.NewLLMProvider(cfg.LLMKind, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		return Adapters{}, err
	}
	p.SetLimits(cfg.MaxPromptChars, cfg.MaxTokens)

	log.Printf("[FX] LLM adapter initialized (%s)", p.DisplayName())
	return Adapters{Adapters: []dispatch.Adapter{p}}, nil
}

// NewContentAdapters creates the document and web page adapters
func NewContentAdapters(cfg config.Config) Adapters {
	doc := document.NewExtractor(document.Config{
		MaxBytes: cfg.MaxUploadBytes,
		MaxChars: cfg.MaxPageChars,
	})
	page := scraper.NewScraper(scraper.Config{
		SupadataAPIKey: cfg.SupadataAPIKey,
		MaxChars:       cfg.MaxPageChars,
	})
	log.Printf("[FX] Document and web page adapters initialized")
	return Adapters{Adapters: []dispatch.Adapter{doc, page}}
}

// DispatcherParams collects the adapter group
type DispatcherParams struct {
	fx.In
	Adapters []dispatch.Adapter `group:"adapters"`
}

// NewDispatcher registers all grouped adapters
func NewDispatcher(p DispatcherParams) *dispatch.Dispatcher {
	d := dispatch.NewDispatcher(p.Adapters...)
	log.Printf("[FX] Dispatcher initialized with %d providers: %v", d.Count(), d.Names())
	return d
}

// NewExporter creates the artifact exporter
func NewExporter(cfg config.Config) (*export.Exporter, error) {
	font, err := export.LoadFont(cfg.ExportFontFile)
	if err != nil {
		return nil, err
	}
	if cfg.ExportFontFile != "" {
		log.Printf("[FX] Exporter using font %s", cfg.ExportFontFile)
	}
	return export.NewExporter(cfg.ExportTitle).WithFont(font), nil
}
