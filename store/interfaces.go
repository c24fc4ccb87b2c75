package store

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// DefaultTopK is the store-side result limit applied when a caller does not
// configure one.
const DefaultTopK = 10

// Point is one chunk+embedding+payload tuple sent to the vector store.
type Point struct {
	Id      core.ID
	Vector  []float32
	Text    string
	Payload map[string]string
}

// PointError describes a single point rejected during a batch upsert.
type PointError struct {
	Id  core.ID
	Err error
}

// UpsertResult reports the outcome of a batch upsert. Failed points are
// reported, not retried; already-upserted points are never rolled back.
type UpsertResult struct {
	Upserted int
	Failed   []PointError
}

// VectorStore is the external similarity index consumed by the ingestion and
// query pipelines. Implementations must be thread-safe and support
// concurrent searches.
type VectorStore interface {
	// EnsureCollection creates the named collection with the given vector
	// dimension if it does not already exist.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert stores the points in the collection. A schema rejection of an
	// individual point is reported in the result rather than failing the
	// whole batch; transport failures return an error.
	Upsert(ctx context.Context, points []Point) (*UpsertResult, error)

	// Search returns up to topK passages most similar to the vector,
	// ordered by similarity score (highest first). A non-positive topK
	// applies the store's default limit.
	Search(ctx context.Context, vector []float32, topK int) ([]*core.Passage, error)

	// Close releases resources held by the store client.
	Close() error
}
