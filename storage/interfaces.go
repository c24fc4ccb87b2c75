package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for the local document cache.
// Fetch writes documents here; indexing reads them back, so the two steps
// can run at different times without re-downloading the source.
type DocumentRepository interface {
	Repository

	// PutDocuments stores one or more documents.
	// For documents with Id=0, derives a content-based ID.
	// Sets FetchedAt if not already set.
	// An existing document with the same ID is overwritten.
	// Returns the documents with IDs and timestamps populated.
	PutDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// FindDocumentByName finds a document by its name.
	// Returns ErrNotFound if no matching document exists.
	FindDocumentByName(ctx context.Context, name string) (*core.Document, error)

	// ListDocuments retrieves all cached documents, ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error
}
