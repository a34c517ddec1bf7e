package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/manthysbr/tripplanner/internal/adapters/flights"
	"github.com/manthysbr/tripplanner/internal/adapters/llm"
	"github.com/manthysbr/tripplanner/internal/adapters/pdf"
	"github.com/manthysbr/tripplanner/internal/adapters/search"
	"github.com/manthysbr/tripplanner/internal/adapters/weather"
	"github.com/manthysbr/tripplanner/internal/config"
	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// Set groups every external collaborator the planner needs.
type Set struct {
	LLM      domain.LLMProvider
	Flights  []domain.FlightProvider // queried in this order
	Geocoder domain.Geocoder
	Weather  domain.WeatherProvider
	Search   domain.WebSearcher
	Exporter domain.DocumentExporter
}

// Build creates all providers from app configuration.
// It hides local/remote LLM selection from callers.
func Build(cfg *config.Config) (*Set, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	llmProvider, err := buildLLMProvider(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.FlightTimeout()}
	fc := cfg.Providers.Flights
	meteo := weather.NewOpenMeteo(cfg.Providers.Weather.GeocodingURL, cfg.Providers.Weather.ForecastURL, nil)

	return &Set{
		LLM: llmProvider,
		Flights: []domain.FlightProvider{
			flights.NewGoogleFlights("", fc.SerpAPIKey, httpClient),
			flights.NewAmadeus(fc.Amadeus.BaseURL(), fc.Amadeus.ClientID, fc.Amadeus.ClientSecret, httpClient),
		},
		Geocoder: meteo,
		Weather:  meteo,
		Search:   search.NewBrave("", cfg.Providers.Search.BraveAPIKey, nil),
		Exporter: pdf.NewExporter(cfg.ExportPrefix),
	}, nil
}

func buildLLMProvider(cfg *config.Config) (domain.LLMProvider, error) {
	lc := cfg.Providers.LLM
	switch strings.ToLower(strings.TrimSpace(lc.Mode)) {
	case "", "local":
		return llm.NewOpenAIProvider(normalizeOllamaBaseURL(lc.LocalURL), "", lc.DefaultModel, cfg.LLMTimeout()), nil
	case "remote":
		if strings.TrimSpace(lc.RemoteURL) == "" {
			return nil, fmt.Errorf("llm remote_url is required when mode=remote")
		}
		return llm.NewOpenAIProvider(strings.TrimSpace(lc.RemoteURL), strings.TrimSpace(lc.APIKey), lc.DefaultModel, cfg.LLMTimeout()), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider mode: %s", lc.Mode)
	}
}

// normalizeOllamaBaseURL turns "localhost:11434" or "http://host:11434/"
// into the OpenAI-compatible "http://host:11434/v1".
func normalizeOllamaBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "http://localhost:11434"
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	if !strings.HasSuffix(trimmed, "/v1") {
		trimmed += "/v1"
	}
	return trimmed
}
