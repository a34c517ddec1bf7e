package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SealedPrefix marks a provider credential sealed with TRIP_SECRET_KEY.
const SealedPrefix = "enc:"

// ErrNoSecretKey is returned when a sealed credential is found but
// TRIP_SECRET_KEY is empty.
var ErrNoSecretKey = errors.New("TRIP_SECRET_KEY is not set")

// credential is one secret field of the config, named as in the YAML file.
type credential struct {
	field string
	value *string
}

func (c *Config) credentials() []credential {
	return []credential{
		{"providers.llm.api_key", &c.Providers.LLM.APIKey},
		{"providers.flights.amadeus.client_id", &c.Providers.Flights.Amadeus.ClientID},
		{"providers.flights.amadeus.client_secret", &c.Providers.Flights.Amadeus.ClientSecret},
		{"providers.flights.serpapi_key", &c.Providers.Flights.SerpAPIKey},
		{"providers.search.brave_api_key", &c.Providers.Search.BraveAPIKey},
	}
}

// credentialCipher derives the AES-256-GCM cipher from the passphrase.
func credentialCipher(passphrase string) (cipher.AEAD, error) {
	if passphrase == "" {
		return nil, ErrNoSecretKey
	}
	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// SealCredential encrypts a credential for the config file. The result is
// SealedPrefix followed by base64(nonce || ciphertext).
func SealCredential(passphrase, value string) (string, error) {
	if value == "" {
		return "", errors.New("credential is empty")
	}
	aead, err := credentialCipher(passphrase)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), nil)
	return SealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func openCredential(aead cipher.AEAD, sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, SealedPrefix))
	if err != nil {
		return "", fmt.Errorf("base64: %w", err)
	}
	if len(data) < aead.NonceSize() {
		return "", errors.New("sealed value too short")
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("wrong TRIP_SECRET_KEY or corrupted value: %w", err)
	}
	return string(plain), nil
}

// openCredentials replaces every sealed credential with its plaintext.
// Plain values are left alone, and the passphrase is only needed when at
// least one field is sealed.
func (c *Config) openCredentials(passphrase string) error {
	var aead cipher.AEAD
	for _, cred := range c.credentials() {
		if !strings.HasPrefix(*cred.value, SealedPrefix) {
			continue
		}
		if aead == nil {
			var err error
			if aead, err = credentialCipher(passphrase); err != nil {
				return fmt.Errorf("%s is sealed: %w", cred.field, err)
			}
		}
		plain, err := openCredential(aead, *cred.value)
		if err != nil {
			return fmt.Errorf("open %s: %w", cred.field, err)
		}
		*cred.value = plain
	}
	return nil
}

// maskCredential keeps the last four characters: "****abcd".
func maskCredential(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}
