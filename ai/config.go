// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	// ProviderOpenAI talks to an OpenAI-compatible chat completion API directly.
	ProviderOpenAI = "openai"

	// ProviderBackend talks to a keyword/rank HTTP service.
	ProviderBackend = "backend"
)

// Config holds configuration for the collaborator services.
// It is passed explicitly to adapters at construction time.
type Config struct {
	// Provider selects the adapter family: ProviderOpenAI or ProviderBackend.
	Provider string

	// Endpoint is the base URL of the service.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server,
	// "https://hscode-backend.example.com" for a keyword/rank service.
	Endpoint string

	// Credential is sent as a bearer token. May be empty for local services.
	Credential string

	// Model is the chat model identifier. Only used by ProviderOpenAI.
	// Example: "qwen2.5:7b", "gpt-4o-mini"
	Model string

	// Timeout bounds each individual collaborator call.
	// Default: 60s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the adapter family.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEndpoint sets the service base URL.
func WithEndpoint(endpoint string) ConfigOption {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// WithCredential sets the bearer credential.
func WithCredential(credential string) ConfigOption {
	return func(c *Config) {
		c.Credential = credential
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Endpoint: "http://localhost:11434/v1",
		Model:    "qwen2.5:7b",
		Timeout:  60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderBackend),
//	    WithEndpoint("https://hscode-backend.example.com"),
//	    WithTimeout(30*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible endpoints get a /v1 suffix if missing; backend endpoints
// lose any trailing slash so paths can be appended.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		return
	}

	c.Endpoint = strings.TrimSuffix(c.Endpoint, "/")
	if c.Provider == ProviderOpenAI && !strings.HasSuffix(c.Endpoint, "/v1") {
		c.Endpoint = c.Endpoint + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI, ProviderBackend:
	default:
		return fmt.Errorf("ai config: unknown provider %q (want %s or %s)", c.Provider, ProviderOpenAI, ProviderBackend)
	}
	if c.Endpoint == "" {
		return errors.New("ai config: Endpoint is required")
	}
	if c.Provider == ProviderOpenAI && c.Model == "" {
		return errors.New("ai config: Model is required for the openai provider")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}
