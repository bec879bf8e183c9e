package storage

import (
	"context"
)

// ObjectStore is the byte store for paste file content. Keys are the paths
// produced by the pathname package. Objects are write-once: a key is never
// rewritten in place, so implementations need no versioning or locking.
type ObjectStore interface {
	// Put writes data at path.
	Put(ctx context.Context, path string, data []byte) error

	// Get retrieves the bytes at path. A missing object yields a
	// models.NotFoundError.
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object at path. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, path string) error
}
