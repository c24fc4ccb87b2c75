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


package chunk

import "errors"

// Default window geometry for document chunking.
const (
	DefaultMaxTokens     = 512
	DefaultOverlapTokens = 64
)

var (
	// ErrTokenizerRequired is returned when a tokenizer is not provided.
	ErrTokenizerRequired = errors.New("tokenizer required")

	// ErrInvalidWindow is returned for a non-positive window size or an
	// overlap that is not smaller than the window.
	ErrInvalidWindow = errors.New("invalid chunk window: overlap must be >= 0 and smaller than max tokens")
)

// Splitter splits text into an ordered sequence of chunk texts.
// Implementations are independently substitutable for testing.
type Splitter interface {
	// Split produces the ordered chunk texts for the input.
	Split(text string) ([]string, error)
}

// TokenSplitter splits text into overlapping fixed-size token windows.
// Each successive chunk starts maxTokens-overlapTokens tokens after the
// previous one's start; the final chunk may be shorter than maxTokens.
// No sentence-boundary awareness is attempted.
type TokenSplitter struct {
	tokenizer     Tokenizer
	maxTokens     int
	overlapTokens int
}

var _ Splitter = (*TokenSplitter)(nil)

// NewTokenSplitter creates a splitter producing windows of maxTokens tokens
// overlapping their neighbors by overlapTokens.
func NewTokenSplitter(tokenizer Tokenizer, maxTokens, overlapTokens int) (*TokenSplitter, error) {
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}
	if maxTokens <= 0 || overlapTokens < 0 || overlapTokens >= maxTokens {
		return nil, ErrInvalidWindow
	}
	return &TokenSplitter{
		tokenizer:     tokenizer,
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
	}, nil
}

// Split produces the ordered chunk texts for the input.
// Text that fits inside a single window is returned as one chunk equal to
// the input, with no tokenization roundtrip.
func (s *TokenSplitter) Split(text string) ([]string, error) {
	tokens := s.tokenizer.Encode(text)
	if len(tokens) <= s.maxTokens {
		return []string{text}, nil
	}

	step := s.maxTokens - s.overlapTokens
	chunks := make([]string, 0, (len(tokens)+step-1)/step)
	for start := 0; start < len(tokens); start += step {
		end := start + s.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, s.tokenizer.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}
