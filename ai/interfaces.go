package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryExpander produces semantically related rephrasings of a question.
// Implementations must be thread-safe for concurrent use.
type QueryExpander interface {
	// ExpandQuery asks a language model for alternate phrasings of the
	// question. The count and wording are model-dependent; callers must
	// tolerate zero, one, or many paraphrases. An unparseable model response
	// yields an empty slice, not an error; transport failures return errors.
	ExpandQuery(ctx context.Context, question string) ([]string, error)
}

// Answerer synthesizes an answer to a question from supplied context.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer asks a language model to answer the question using only the
	// given context block. The model is instructed to reply "I don't know"
	// when the context is insufficient; the completion is returned verbatim
	// with no grounding validation.
	Answer(ctx context.Context, question, contextBlock string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages the embedding,
// expansion, and answering services, ensuring they share configuration.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// QueryExpander returns the query expansion service.
	QueryExpander() QueryExpander

	// Answerer returns the answer synthesis service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
