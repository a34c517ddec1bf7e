package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/config"
)

func TestNormalizeOllamaBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                            "http://localhost:11434/v1",
		"localhost:11434":             "http://localhost:11434/v1",
		"http://ollama:11434/":        "http://ollama:11434/v1",
		"http://localhost:11434/v1":   "http://localhost:11434/v1",
		"https://gpu.example.com/v1/": "https://gpu.example.com/v1",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeOllamaBaseURL(in), "input %q", in)
	}
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.LLM.APIKey = "sk-test"
	cfg.Providers.Flights.SerpAPIKey = "serp"

	set, err := Build(cfg)
	require.NoError(t, err)

	require.Len(t, set.Flights, 2)
	assert.Equal(t, "google_flights", set.Flights[0].Name())
	assert.True(t, set.Flights[0].Available())
	assert.Equal(t, "amadeus", set.Flights[1].Name())
	assert.False(t, set.Flights[1].Available())
	assert.False(t, set.Search.Available())
	require.NotNil(t, set.LLM)
	model, ok := set.LLM.(interface{ Model() string })
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", model.Model())
	assert.NotNil(t, set.Geocoder)
	assert.NotNil(t, set.Weather)
	assert.NotNil(t, set.Exporter)
}

func TestBuild_UnsupportedMode(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.LLM.Mode = "cloud"

	_, err := Build(cfg)
	assert.Error(t, err)
}
