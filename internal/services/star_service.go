package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/davidwtbuxton/captain-pasty/internal/metrics"
	"github.com/davidwtbuxton/captain-pasty/models"
	"github.com/davidwtbuxton/captain-pasty/storage"
)

// DefaultStarLimit caps ListStarredPastes when no limit is given.
const DefaultStarLimit = 100

// StarService handles star bookkeeping
type StarService struct {
	store storage.PasteStore
}

// NewStarService creates a new star service
func NewStarService(store storage.PasteStore) *StarService {
	return &StarService{store: store}
}

// Star records that author starred the paste. Starring twice keeps the
// original record, so the created time never moves.
func (s *StarService) Star(ctx context.Context, author, pasteID string) (*models.Star, error) {
	paste, err := s.store.GetPaste(ctx, pasteID)
	if err != nil {
		return nil, fmt.Errorf("failed to check paste %s: %w", pasteID, err)
	}
	if paste == nil {
		return nil, &models.NotFoundError{Kind: "paste", ID: pasteID}
	}

	star, err := s.store.GetOrInsertStar(ctx, models.NewStar(author, pasteID, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to star paste %s: %w", pasteID, err)
	}
	metrics.StarsCreated.Inc()
	return star, nil
}

// Unstar removes author's star from the paste. Removing a star that does
// not exist is not an error.
func (s *StarService) Unstar(ctx context.Context, author, pasteID string) error {
	if err := s.store.DeleteStar(ctx, models.StarID(author, pasteID)); err != nil {
		return fmt.Errorf("failed to unstar paste %s: %w", pasteID, err)
	}
	return nil
}

// ListStarredPastes returns author's starred pastes, most recently starred
// first. Stars whose pastes no longer resolve are skipped.
func (s *StarService) ListStarredPastes(ctx context.Context, author string, limit int) ([]*models.Paste, error) {
	if limit <= 0 {
		limit = DefaultStarLimit
	}

	stars, err := s.store.ListStarsByAuthor(ctx, author, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stars for %s: %w", author, err)
	}

	pastes := make([]*models.Paste, 0, len(stars))
	for _, star := range stars {
		paste, err := s.store.GetPaste(ctx, star.PasteID)
		if err != nil {
			log.Printf("[WARN] could not resolve starred paste %s: %v", star.PasteID, err)
			continue
		}
		if paste == nil {
			continue
		}
		pastes = append(pastes, paste)
	}
	return pastes, nil
}
