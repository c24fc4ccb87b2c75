package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockExpander is a test double for ai.QueryExpander.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, as ai.QueryExpander requires.
type MockExpander struct {
	// ExpandQueryFunc is called by ExpandQuery if set.
	// If nil, uses default deterministic behavior.
	ExpandQueryFunc func(ctx context.Context, question string) ([]string, error)

	callCount atomic.Int64
}

// NewMockExpander creates a mock expander with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockExpander().
func NewMockExpander() *MockExpander {
	return &MockExpander{}
}

// ExpandQuery returns deterministic paraphrases of the question.
// Default behavior: three template rewrites of the original question.
func (m *MockExpander) ExpandQuery(ctx context.Context, question string) ([]string, error) {
	m.callCount.Add(1)

	if m.ExpandQueryFunc != nil {
		return m.ExpandQueryFunc(ctx, question)
	}

	trimmed := strings.TrimSuffix(strings.TrimSpace(question), "?")
	return []string{
		"In other words, " + trimmed + "?",
		"Put differently, " + trimmed + "?",
		"Rephrased: " + trimmed + "?",
	}, nil
}

// CallCount returns the number of times ExpandQuery was called.
func (m *MockExpander) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockExpander) Reset() {
	m.callCount.Store(0)
	m.ExpandQueryFunc = nil
}
