package storage

import (
	"context"
	"testing"
	"time"

	"github.com/davidwtbuxton/captain-pasty/models"
)

func TestMemoryStorePasteRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	paste := &models.Paste{
		ID:      "1234",
		Created: time.Date(2016, 12, 25, 0, 0, 0, 0, time.UTC),
		Author:  "jeff@example.com",
		Files: []models.PasteFile{
			{Filename: "example.txt", NumLines: 1},
		},
	}

	if err := store.PutPaste(ctx, paste); err != nil {
		t.Fatalf("PutPaste failed: %v", err)
	}

	got, err := store.GetPaste(ctx, "1234")
	if err != nil {
		t.Fatalf("GetPaste failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected paste, got nil")
	}
	if got.Author != "jeff@example.com" || len(got.Files) != 1 {
		t.Errorf("unexpected paste: %+v", got)
	}

	missing, err := store.GetPaste(ctx, "nope")
	if err != nil {
		t.Fatalf("GetPaste failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing paste, got %+v", missing)
	}
}

func TestMemoryStoreGetOrInsertStarIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := models.NewStar("jeff@example.com", "1234", time.Now())
	a, err := store.GetOrInsertStar(ctx, first)
	if err != nil {
		t.Fatalf("GetOrInsertStar failed: %v", err)
	}

	// A later re-star carries a different timestamp but must return the
	// original record.
	second := models.NewStar("jeff@example.com", "1234", time.Now().Add(time.Hour))
	b, err := store.GetOrInsertStar(ctx, second)
	if err != nil {
		t.Fatalf("GetOrInsertStar failed: %v", err)
	}

	if a.ID != b.ID {
		t.Errorf("expected same star identity, got %q and %q", a.ID, b.ID)
	}
	if !b.Created.Equal(first.Created) {
		t.Errorf("expected original created time to survive re-star, got %v", b.Created)
	}

	stars, err := store.ListStarsByAuthor(ctx, "jeff@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarsByAuthor failed: %v", err)
	}
	if len(stars) != 1 {
		t.Errorf("expected exactly one star record, got %d", len(stars))
	}
}

func TestMemoryStoreDeleteStar(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	star := models.NewStar("jeff@example.com", "1234", time.Now())
	if _, err := store.GetOrInsertStar(ctx, star); err != nil {
		t.Fatalf("GetOrInsertStar failed: %v", err)
	}

	if err := store.DeleteStar(ctx, star.ID); err != nil {
		t.Fatalf("DeleteStar failed: %v", err)
	}

	// Deleting a star that does not exist is not an error.
	if err := store.DeleteStar(ctx, star.ID); err != nil {
		t.Errorf("expected deleting missing star to succeed, got %v", err)
	}

	stars, err := store.ListStarsByAuthor(ctx, "jeff@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarsByAuthor failed: %v", err)
	}
	if len(stars) != 0 {
		t.Errorf("expected no stars after delete, got %d", len(stars))
	}
}

func TestMemoryStoreListStarsOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2016, 12, 25, 0, 0, 0, 0, time.UTC)

	for i, pasteID := range []string{"a", "b", "c"} {
		star := models.NewStar("jeff@example.com", pasteID, base.Add(time.Duration(i)*time.Minute))
		if _, err := store.GetOrInsertStar(ctx, star); err != nil {
			t.Fatalf("GetOrInsertStar failed: %v", err)
		}
	}

	stars, err := store.ListStarsByAuthor(ctx, "jeff@example.com", 2)
	if err != nil {
		t.Fatalf("ListStarsByAuthor failed: %v", err)
	}
	if len(stars) != 2 {
		t.Fatalf("expected limit of 2 stars, got %d", len(stars))
	}
	if stars[0].PasteID != "c" || stars[1].PasteID != "b" {
		t.Errorf("expected most recently starred first, got %q then %q", stars[0].PasteID, stars[1].PasteID)
	}
}

func TestMemoryStoreForEachPaste(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.PutPaste(ctx, &models.Paste{ID: id}); err != nil {
			t.Fatalf("PutPaste failed: %v", err)
		}
	}

	seen := map[string]bool{}
	err := store.ForEachPaste(ctx, func(p *models.Paste) error {
		seen[p.ID] = true
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachPaste failed: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("expected to visit 3 pastes, got %d", len(seen))
	}
}

func TestMemoryStoreIsolatesStoredPaste(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	paste := &models.Paste{ID: "x", Files: []models.PasteFile{{Filename: "a.txt"}}}
	if err := store.PutPaste(ctx, paste); err != nil {
		t.Fatalf("PutPaste failed: %v", err)
	}

	paste.Files[0].Filename = "mutated.txt"

	got, err := store.GetPaste(ctx, "x")
	if err != nil {
		t.Fatalf("GetPaste failed: %v", err)
	}
	if got.Files[0].Filename != "a.txt" {
		t.Errorf("expected stored paste to be isolated from caller mutation, got %q", got.Files[0].Filename)
	}
}
