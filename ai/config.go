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
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ChatHost is the base URL for the chat completion service API used for
	// query expansion and answer synthesis.
	ChatHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ChatModel is the model identifier to use for expansion and answering.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ChatModel string

	// Token is the API access key sent to both services.
	// "none" works for local OpenAI-compatible servers without auth.
	Token string

	// Paraphrases is the number of rephrasings the expansion prompt asks for.
	// It is a hint to the model, not an enforced count. Default: 3
	Paraphrases int

	// ExpansionTemperature is the sampling temperature for query expansion.
	// Higher values widen the paraphrase variety. Default: 0.7
	ExpansionTemperature float64

	// AnswerTemperature is the sampling temperature for answer synthesis.
	// Default: 0.0 for reproducible grounded answers.
	AnswerTemperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the chat service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithToken sets the API access key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithParaphrases sets the number of rephrasings requested during expansion.
func WithParaphrases(n int) ConfigOption {
	return func(c *Config) {
		c.Paraphrases = n
	}
}

// WithExpansionTemperature sets the sampling temperature for query expansion.
func WithExpansionTemperature(temp float64) ConfigOption {
	return func(c *Config) {
		c.ExpansionTemperature = temp
	}
}

// WithAnswerTemperature sets the sampling temperature for answer synthesis.
func WithAnswerTemperature(temp float64) ConfigOption {
	return func(c *Config) {
		c.AnswerTemperature = temp
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. Both services use the same host by default.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:        defaultHost,
		ChatHost:             defaultHost,
		EmbeddingModel:       "embeddinggemma",
		ChatModel:            "qwen2.5:3b",
		Token:                "none",
		Paraphrases:          3,
		ExpansionTemperature: 0.7,
		AnswerTemperature:    0.0,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.openai.com/v1"),
//	    WithToken(os.Getenv("ANSWERIT_LLM_TOKEN")),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.ChatHost != "" && !strings.HasSuffix(c.ChatHost, "/v1") {
		c.ChatHost = strings.TrimSuffix(c.ChatHost, "/")
		c.ChatHost = c.ChatHost + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.Paraphrases < 0 || c.Paraphrases > 10 {
		return errors.New("ai config: Paraphrases must be between 0 and 10")
	}
	if c.ExpansionTemperature < 0 || c.ExpansionTemperature > 2 {
		return errors.New("ai config: ExpansionTemperature must be between 0 and 2")
	}
	if c.AnswerTemperature < 0 || c.AnswerTemperature > 2 {
		return errors.New("ai config: AnswerTemperature must be between 0 and 2")
	}
	return nil
}
