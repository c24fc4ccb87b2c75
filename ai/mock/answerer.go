package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, as ai.Answerer requires.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, uses default deterministic behavior.
	AnswerFunc func(ctx context.Context, question, contextBlock string) (string, error)

	callCount atomic.Int64
}

// NewMockAnswerer creates a mock answerer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnswerer().
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer produces a deterministic completion.
// Default behavior: echoes the first context line that shares a word with
// the question, or "I don't know" when the context is empty. This mimics a
// grounded model closely enough for pipeline tests.
func (m *MockAnswerer) Answer(ctx context.Context, question, contextBlock string) (string, error) {
	m.callCount.Add(1)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, contextBlock)
	}

	if strings.TrimSpace(contextBlock) == "" {
		return "I don't know", nil
	}

	questionWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		questionWords[strings.Trim(w, ".,!?")] = true
	}

	for _, line := range strings.Split(contextBlock, "\n") {
		if strings.HasPrefix(line, "SOURCE:") || strings.TrimSpace(line) == "" {
			continue
		}
		for _, w := range strings.Fields(strings.ToLower(line)) {
			if questionWords[strings.Trim(w, ".,!?")] {
				return strings.TrimSpace(line), nil
			}
		}
	}

	return "I don't know", nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount.Store(0)
	m.AnswerFunc = nil
}
