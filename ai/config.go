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

// Supported generator backends.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Config holds configuration for language model backends.
type Config struct {
	// Backend selects the generator implementation.
	// One of "ollama" or "openai".
	Backend string

	// Host is the base URL of the model service.
	// Example: "http://localhost:11434" for a local Ollama server.
	Host string

	// Model is the model identifier to use for generation.
	// Example: "llama3.2", "gpt-4o-mini"
	Model string

	// APIKey authenticates against the backend. Required for the openai
	// backend; ignored by ollama.
	APIKey string

	// Temperature controls sampling randomness. Default: 0.3
	Temperature float64

	// Timeout bounds a single generation request. Default: 120s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the generator backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithHost sets the model service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the backend API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// server.
func DefaultConfig() *Config {
	return &Config{
		Backend:     BackendOllama,
		Host:        "http://localhost:11434",
		Model:       "llama3.2",
		Temperature: 0.3,
		Timeout:     120 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are stripped from the host, and for the openai backend a
// /v1 suffix is added if missing, as expected by OpenAI-compatible APIs.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Host = strings.TrimSuffix(c.Host, "/")

	if c.Backend == BackendOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendOllama, BackendOpenAI:
	default:
		return fmt.Errorf("ai config: unknown backend %q", c.Backend)
	}
	if c.Backend == BackendOllama && c.Host == "" {
		return errors.New("ai config: Host is required for the ollama backend")
	}
	if c.Backend == BackendOpenAI && c.APIKey == "" {
		return errors.New("ai config: APIKey is required for the openai backend")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	return nil
}
