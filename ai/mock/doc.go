// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks allow tests to run without external model services and enable
// controlled, deterministic behavior:
//
//   - MockEmbedder: returns FNV-seeded deterministic vectors
//   - MockExpander: returns template rewrites of the question
//   - MockAnswerer: echoes the context line sharing a word with the question
//   - MockProvider: aggregates the three
//
// Behavior can be overridden per test through function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
package mock
