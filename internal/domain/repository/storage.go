package repository

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for the durable blob host.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Upload stores an object and returns its permanent retrieval URL.
	// size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the permanent retrieval URL for a key without touching
	// the storage backend.
	URL(key string) string
}
