package storage

import (
	"context"

	"github.com/poiesic/vestige/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases repository resources. It does not close the backend.
	Close() error
}

// DocumentRepository is the content-addressed version store.
type DocumentRepository interface {
	Repository
	// StoreDocument stores body under its digest.
	// A new digest is inserted with Version 1. A known digest has its Version
	// incremented and its url, title, metadata and timestamp replaced; the body
	// is never altered. Persistence failures wrap ErrStorageFailure.
	StoreDocument(ctx context.Context, url, body, title string, metadata map[string]string) (*core.Document, error)

	// GetDocument retrieves a document by digest.
	// Returns ErrNotFound if the digest was never stored.
	GetDocument(ctx context.Context, digest core.Digest) (*core.Document, error)

	// ListRecent returns up to limit documents, newest timestamp first.
	ListRecent(ctx context.Context, limit int) ([]*core.Document, error)

	// SearchText returns up to limit documents whose body or title contains
	// query, ignoring case, newest first.
	SearchText(ctx context.Context, query string, limit int) ([]*core.Document, error)

	// CountDocuments returns the number of distinct digests stored.
	CountDocuments(ctx context.Context) (int, error)

	// DeleteDocument is not supported and always returns ErrDeletionUnsupported.
	DeleteDocument(ctx context.Context, digest core.Digest) error
}

// OutputRepository stores auxiliary outputs derived from documents.
type OutputRepository interface {
	Repository
	// AddOutput validates and stores an output, assigning its ID and
	// Timestamp. Returns the stored output.
	AddOutput(ctx context.Context, output *core.Output) (*core.Output, error)

	// GetOutputs returns every output recorded for digest, newest first.
	GetOutputs(ctx context.Context, digest core.Digest) ([]*core.Output, error)
}
