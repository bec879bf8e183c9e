package storage

import (
	"context"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// PasteStore defines the interface for paste record and star persistence
// backends. File content bytes are not stored here; they live in an
// ObjectStore keyed by each file's storage path.
//
// Lookups return (nil, nil) for absent records; callers translate that into
// a typed NotFoundError where one is wanted.
type PasteStore interface {
	// PutPaste saves a paste record, replacing any existing record with the
	// same ID.
	PutPaste(ctx context.Context, paste *models.Paste) error

	// GetPaste retrieves a paste record by its ID.
	GetPaste(ctx context.Context, id string) (*models.Paste, error)

	// ForEachPaste invokes fn for every paste record. Used by the re-save
	// task; no ordering is guaranteed. An error from fn stops iteration.
	ForEachPaste(ctx context.Context, fn func(*models.Paste) error) error

	// GetOrInsertStar inserts a star record keyed by its composite ID, or
	// returns the existing record unchanged when one is already present.
	GetOrInsertStar(ctx context.Context, star *models.Star) (*models.Star, error)

	// DeleteStar removes a star by its composite ID. Deleting a missing
	// star is not an error.
	DeleteStar(ctx context.Context, id string) error

	// ListStarsByAuthor returns up to limit stars for an author, most
	// recently created first.
	ListStarsByAuthor(ctx context.Context, author string, limit int) ([]*models.Star, error)

	// Close closes the storage connection
	Close() error
}
