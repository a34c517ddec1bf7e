package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealCredential_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"openai key", "sk-abc123def456xyz"},
		{"amadeus secret", "AbCdEfGh12345678"},
		{"special chars", "sk-+/=!@#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := SealCredential("unit-test-passphrase", tt.value)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(sealed, SealedPrefix))
			assert.NotContains(t, sealed, tt.value)

			cfg := Default()
			cfg.Providers.Flights.Amadeus.ClientSecret = sealed
			require.NoError(t, cfg.openCredentials("unit-test-passphrase"))
			assert.Equal(t, tt.value, cfg.Providers.Flights.Amadeus.ClientSecret)
		})
	}
}

func TestSealCredential_Errors(t *testing.T) {
	_, err := SealCredential("", "sk-abc")
	assert.ErrorIs(t, err, ErrNoSecretKey)

	_, err = SealCredential("passphrase", "")
	assert.Error(t, err)
}

func TestOpenCredentials(t *testing.T) {
	t.Run("plain values need no passphrase", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.Flights.SerpAPIKey = "serp-plain"
		require.NoError(t, cfg.openCredentials(""))
		assert.Equal(t, "serp-plain", cfg.Providers.Flights.SerpAPIKey)
	})

	t.Run("corrupted value names the field", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.Search.BraveAPIKey = SealedPrefix + "not base64!"
		err := cfg.openCredentials("passphrase")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open providers.search.brave_api_key")
	})

	t.Run("too short", func(t *testing.T) {
		cfg := Default()
		cfg.Providers.Search.BraveAPIKey = SealedPrefix + "AAAA"
		err := cfg.openCredentials("passphrase")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too short")
	})
}

func TestMaskCredential(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"abc":                 "****",
		"abcd":                "****",
		"sk-1234567890abcdef": "****cdef",
	}
	for in, want := range tests {
		assert.Equal(t, want, maskCredential(in), "maskCredential(%q)", in)
	}
}
