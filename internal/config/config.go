package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LLMConfig selects and configures the chat completion endpoint.
type LLMConfig struct {
	Mode           string `yaml:"mode"`      // "local" or "remote"
	LocalURL       string `yaml:"local_url"` // "http://localhost:11434/v1"
	RemoteURL      string `yaml:"remote_url"`
	APIKey         string `yaml:"api_key"` // may be "enc:..."
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AmadeusConfig holds the Self-Service API credentials.
type AmadeusConfig struct {
	Env          string `yaml:"env"` // "test" or "production"
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// BaseURL returns the API host for the configured environment.
func (a AmadeusConfig) BaseURL() string {
	if strings.EqualFold(a.Env, "production") {
		return "https://api.amadeus.com"
	}
	return "https://test.api.amadeus.com"
}

type FlightsConfig struct {
	Amadeus        AmadeusConfig `yaml:"amadeus"`
	SerpAPIKey     string        `yaml:"serpapi_key"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
}

type SearchConfig struct {
	BraveAPIKey string `yaml:"brave_api_key"`
}

type WeatherConfig struct {
	GeocodingURL string `yaml:"geocoding_url"`
	ForecastURL  string `yaml:"forecast_url"`
}

type ProvidersConfig struct {
	LLM     LLMConfig     `yaml:"llm"`
	Flights FlightsConfig `yaml:"flights"`
	Search  SearchConfig  `yaml:"search"`
	Weather WeatherConfig `yaml:"weather"`
}

// Config is the whole application configuration. It is read once at
// startup and passed to constructors.
type Config struct {
	Addr         string          `yaml:"addr"`
	HomeCity     string          `yaml:"home_city"`
	LogLevel     string          `yaml:"log_level"`
	ExportPrefix string          `yaml:"export_prefix"`
	TraceLimit   int             `yaml:"trace_limit"`
	Providers    ProvidersConfig `yaml:"providers"`
}

// Default returns safe defaults
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		HomeCity:     "Paris",
		LogLevel:     "info",
		ExportPrefix: "trip_plan",
		TraceLimit:   200,
		Providers: ProvidersConfig{
			LLM: LLMConfig{
				Mode:           "remote",
				LocalURL:       "http://localhost:11434/v1",
				RemoteURL:      "https://api.openai.com/v1",
				DefaultModel:   "gpt-4o-mini",
				TimeoutSeconds: 90,
			},
			Flights: FlightsConfig{
				Amadeus:        AmadeusConfig{Env: "test"},
				TimeoutSeconds: 20,
			},
		},
	}
}

// LLMTimeout returns the model call timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.Providers.LLM.TimeoutSeconds) * time.Second
}

// FlightTimeout returns the per-provider flight search timeout.
func (c *Config) FlightTimeout() time.Duration {
	return time.Duration(c.Providers.Flights.TimeoutSeconds) * time.Second
}

// Getenv looks up an environment variable. os.Getenv in production.
type Getenv func(key string) string

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment overrides. Sealed credentials are opened with the
// TRIP_SECRET_KEY passphrase.
func Load(path string, getenv Getenv) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(getenv)

	if err := cfg.openCredentials(getenv("TRIP_SECRET_KEY")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv Getenv) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	llm := &c.Providers.LLM
	set(&c.Addr, "TRIP_ADDR")
	set(&c.HomeCity, "TRIP_HOME_CITY")
	set(&c.LogLevel, "TRIP_LOG_LEVEL")
	set(&llm.Mode, "TRIP_LLM_MODE")
	set(&llm.LocalURL, "OLLAMA_HOST")
	set(&llm.APIKey, "OPENAI_API_KEY")
	set(&llm.DefaultModel, "TRIP_LLM_MODEL")
	set(&c.Providers.Flights.Amadeus.ClientID, "AMADEUS_CLIENT_ID")
	set(&c.Providers.Flights.Amadeus.ClientSecret, "AMADEUS_CLIENT_SECRET")
	set(&c.Providers.Flights.Amadeus.Env, "AMADEUS_ENV")
	set(&c.Providers.Flights.SerpAPIKey, "SERPAPI_API_KEY")
	set(&c.Providers.Search.BraveAPIKey, "BRAVE_SEARCH_API_KEY")
}

// Validate checks the provider settings.
func (c *Config) Validate() error {
	var errs []error
	llm := c.Providers.LLM
	switch strings.ToLower(llm.Mode) {
	case "local":
		if llm.LocalURL == "" {
			errs = append(errs, errors.New("llm local_url is required when mode=local"))
		}
	case "remote":
		if llm.RemoteURL == "" {
			errs = append(errs, errors.New("llm remote_url is required when mode=remote"))
		}
		if llm.APIKey == "" {
			errs = append(errs, errors.New("llm api_key (or OPENAI_API_KEY) is required when mode=remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported llm provider mode: %q", llm.Mode))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	return errors.Join(errs...)
}

// Masked returns a copy with every secret masked, safe to log.
func (c *Config) Masked() Config {
	cp := *c
	for _, cred := range cp.credentials() {
		*cred.value = maskCredential(*cred.value)
	}
	return cp
}
