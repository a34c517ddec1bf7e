package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_DefaultsWithEnv(t *testing.T) {
	cfg, err := Load("", envMap(map[string]string{
		"OPENAI_API_KEY":       "sk-test-1234",
		"SERPAPI_API_KEY":      "serp",
		"BRAVE_SEARCH_API_KEY": "brave",
		"TRIP_HOME_CITY":       "Lyon",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "Lyon", cfg.HomeCity)
	assert.Equal(t, "remote", cfg.Providers.LLM.Mode)
	assert.Equal(t, "sk-test-1234", cfg.Providers.LLM.APIKey)
	assert.Equal(t, "serp", cfg.Providers.Flights.SerpAPIKey)
	assert.Equal(t, "brave", cfg.Providers.Search.BraveAPIKey)
	assert.Equal(t, "https://test.api.amadeus.com", cfg.Providers.Flights.Amadeus.BaseURL())
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
home_city: Marseille
providers:
  llm:
    mode: local
    local_url: http://ollama:11434/v1
    default_model: llama3.1
  flights:
    amadeus:
      env: production
      client_id: file-id
      client_secret: file-secret
    timeout_seconds: 5
`)
	cfg, err := Load(path, envMap(map[string]string{"AMADEUS_CLIENT_ID": "env-id"}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "Marseille", cfg.HomeCity)
	assert.Equal(t, "local", cfg.Providers.LLM.Mode)
	assert.Equal(t, "llama3.1", cfg.Providers.LLM.DefaultModel)
	assert.Equal(t, "env-id", cfg.Providers.Flights.Amadeus.ClientID)
	assert.Equal(t, "file-secret", cfg.Providers.Flights.Amadeus.ClientSecret)
	assert.Equal(t, "https://api.amadeus.com", cfg.Providers.Flights.Amadeus.BaseURL())
	assert.Equal(t, 5, cfg.Providers.Flights.TimeoutSeconds)
}

func TestLoad_OpensSealedCredentials(t *testing.T) {
	sealed, err := SealCredential("passphrase", "sk-live-9876")
	require.NoError(t, err)

	path := writeConfig(t, "providers:\n  llm:\n    api_key: \""+sealed+"\"\n")
	cfg, err := Load(path, envMap(map[string]string{"TRIP_SECRET_KEY": "passphrase"}))
	require.NoError(t, err)
	assert.Equal(t, "sk-live-9876", cfg.Providers.LLM.APIKey)

	t.Run("missing passphrase", func(t *testing.T) {
		_, err := Load(path, envMap(nil))
		require.ErrorIs(t, err, ErrNoSecretKey)
		assert.Contains(t, err.Error(), "providers.llm.api_key")
	})
	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := Load(path, envMap(map[string]string{"TRIP_SECRET_KEY": "other"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open providers.llm.api_key")
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
		assert.Error(t, err)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "addr: [unclosed"), envMap(nil))
		assert.Error(t, err)
	})
	t.Run("remote without key", func(t *testing.T) {
		_, err := Load("", envMap(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
	})
	t.Run("unknown mode", func(t *testing.T) {
		_, err := Load("", envMap(map[string]string{"TRIP_LLM_MODE": "cloud"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported llm provider mode")
	})
}

func TestConfig_Masked(t *testing.T) {
	cfg := Default()
	cfg.Providers.LLM.APIKey = "sk-abc123def"
	cfg.Providers.Search.BraveAPIKey = "brave-key-9999"

	masked := cfg.Masked()
	assert.Equal(t, "****3def", masked.Providers.LLM.APIKey)
	assert.Equal(t, "****9999", masked.Providers.Search.BraveAPIKey)
	assert.Equal(t, "sk-abc123def", cfg.Providers.LLM.APIKey)
}
