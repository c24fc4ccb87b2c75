// Package store provides the vector store abstraction consumed by the
// ingestion and query pipelines.
//
// The VectorStore interface decouples the pipelines from the hosted search
// cluster. Two implementations ship with the module:
//
//   - store/qdrant: REST client for a Qdrant collection (production)
//   - store/memory: in-process cosine index (tests, offline runs)
//
// Upsert reports per-point failures instead of failing a whole batch: a
// point the store rejects (for example a payload value that violates a typed
// index) is counted and surfaced while the rest of the batch lands. Nothing
// is retried and nothing is rolled back.
package store
