package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Endpoint)
	assert.Equal(t, "qwen2.5:7b", cfg.Model)
	assert.Empty(t, cfg.Credential)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, 60*time.Second, cfg.Timeout)
	})

	t.Run("backend provider", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderBackend),
			WithEndpoint("https://hscode-backend.example.com"),
			WithCredential("secret"),
		)

		assert.Equal(t, ProviderBackend, cfg.Provider)
		assert.Equal(t, "https://hscode-backend.example.com", cfg.Endpoint)
		assert.Equal(t, "secret", cfg.Credential)
	})

	t.Run("with custom model and timeout", func(t *testing.T) {
		cfg := NewConfig(
			WithModel("gpt-4o-mini"),
			WithTimeout(5*time.Second),
		)

		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("later options win", func(t *testing.T) {
		cfg := NewConfig(WithModel("a"), WithModel("b"))
		assert.Equal(t, "b", cfg.Model)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		endpoint string
		want     string
	}{
		{"openai adds v1", ProviderOpenAI, "http://localhost:11434", "http://localhost:11434/v1"},
		{"openai trailing slash", ProviderOpenAI, "http://localhost:11434/", "http://localhost:11434/v1"},
		{"openai keeps v1", ProviderOpenAI, "http://localhost:11434/v1/", "http://localhost:11434/v1"},
		{"backend trims slash", ProviderBackend, "https://svc.example.com/", "https://svc.example.com"},
		{"backend untouched", ProviderBackend, "https://svc.example.com", "https://svc.example.com"},
		{"empty endpoint", ProviderOpenAI, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, Endpoint: tt.endpoint}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Endpoint)
		})
	}

	t.Run("provider is lower-cased", func(t *testing.T) {
		cfg := &Config{Provider: " Backend ", Endpoint: "http://x"}
		cfg.Normalize()
		assert.Equal(t, ProviderBackend, cfg.Provider)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("backend without model is valid", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderBackend), WithEndpoint("http://svc"), WithModel(""))
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"unknown provider", NewConfig(WithProvider("gemini"))},
		{"missing endpoint", NewConfig(WithEndpoint(""))},
		{"openai without model", NewConfig(WithModel(""))},
		{"zero timeout", NewConfig(WithTimeout(0))},
		{"negative timeout", NewConfig(WithTimeout(-time.Second))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
