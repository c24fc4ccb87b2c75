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


package openai

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/answerit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Expander implements ai.QueryExpander using OpenAI-compatible chat APIs.
type Expander struct {
	client      llms.Model
	paraphrases int
	temperature float64
	logger      *slog.Logger
}

// newExpander is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExpander(config *ai.Config) (*Expander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Expander{
		client:      client,
		paraphrases: config.Paraphrases,
		temperature: config.ExpansionTemperature,
		logger:      slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewExpander creates a new query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newExpander(config)
}

// ExpandQuery asks the chat model for rephrasings of the question.
// The requested count is a prompt hint; the model may return fewer or more
// variants, and a response that does not parse as a list degrades to an
// empty slice rather than an error.
func (e *Expander) ExpandQuery(ctx context.Context, question string) ([]string, error) {
	if e.paraphrases == 0 {
		return []string{}, nil
	}

	prompt, err := buildExpansionPrompt(question, e.paraphrases)
	if err != nil {
		return nil, err
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(e.temperature))
	if err != nil {
		e.logger.Error("failed to generate paraphrases", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return []string{}, nil
	}

	variants := parseParaphrases(response.Choices[0].Content, question)
	e.logger.Debug("expanded query", "requested", e.paraphrases, "parsed", len(variants))
	return variants, nil
}

// ordinalMarker matches leading list markers: "1.", "2)", "3:", "-", "*", "•".
var ordinalMarker = regexp.MustCompile(`^(?:\d+\s*[.):\-]?|[-*•])\s*`)

// parseParaphrases extracts paraphrase lines from a model response.
// Split on newlines, strip leading ordinal markers and surrounding quotes,
// discard blank lines and echoes of the original question. A free-text
// response with no list structure therefore yields at most its non-blank
// lines, and garbage yields nothing.
func parseParaphrases(response, original string) []string {
	lines := strings.Split(response, "\n")
	variants := make([]string, 0, len(lines))

	normalizedOriginal := strings.ToLower(strings.TrimSpace(original))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = ordinalMarker.ReplaceAllString(line, "")
		line = strings.Trim(line, `"`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ToLower(line) == normalizedOriginal {
			continue
		}
		variants = append(variants, line)
	}

	return variants
}
