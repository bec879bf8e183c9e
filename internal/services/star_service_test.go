package services

import (
	"context"
	"testing"

	"github.com/davidwtbuxton/captain-pasty/highlight"
	"github.com/davidwtbuxton/captain-pasty/models"
)

func TestStarRequiresPaste(t *testing.T) {
	_, store, _ := newTestService(t, highlight.Plain{})
	stars := NewStarService(store)

	_, err := stars.Star(context.Background(), "jeff@example.com", "missing")
	if !models.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestStarIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t, highlight.Plain{})
	stars := NewStarService(store)
	ctx := context.Background()

	paste, err := svc.CreateWithFiles(ctx, "jeff@example.com", "", "", []FileInput{
		{Filename: "x.txt", Content: []byte("x")},
	})
	if err != nil {
		t.Fatalf("CreateWithFiles failed: %v", err)
	}

	first, err := stars.Star(ctx, "alice@example.com", paste.ID)
	if err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	second, err := stars.Star(ctx, "alice@example.com", paste.ID)
	if err != nil {
		t.Fatalf("Star failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("star IDs differ: %q vs %q", first.ID, second.ID)
	}
	if !first.Created.Equal(second.Created) {
		t.Errorf("re-starring moved the created time: %v vs %v", first.Created, second.Created)
	}
}

func TestUnstarMissingIsNotAnError(t *testing.T) {
	_, store, _ := newTestService(t, highlight.Plain{})
	stars := NewStarService(store)

	if err := stars.Unstar(context.Background(), "alice@example.com", "never-starred"); err != nil {
		t.Errorf("Unstar failed: %v", err)
	}
}

func TestListStarredPastes(t *testing.T) {
	svc, store, _ := newTestService(t, highlight.Plain{})
	stars := NewStarService(store)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.txt", "b.txt"} {
		paste, err := svc.CreateWithFiles(ctx, "jeff@example.com", "", "", []FileInput{
			{Filename: name, Content: []byte("x")},
		})
		if err != nil {
			t.Fatalf("CreateWithFiles failed: %v", err)
		}
		ids = append(ids, paste.ID)
		if _, err := stars.Star(ctx, "alice@example.com", paste.ID); err != nil {
			t.Fatalf("Star failed: %v", err)
		}
	}

	listed, err := stars.ListStarredPastes(ctx, "alice@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarredPastes failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 pastes, got %d", len(listed))
	}

	// Stars by other authors never leak in.
	other, err := stars.ListStarredPastes(ctx, "jeff@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarredPastes failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no pastes for jeff, got %d", len(other))
	}

	// A starred paste that no longer exists is skipped.
	store.DeletePaste(ids[0])

	listed, err = stars.ListStarredPastes(ctx, "alice@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarredPastes failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != ids[1] {
		t.Errorf("expected only the surviving paste, got %+v", listed)
	}
}

func TestUnstarRemovesFromListing(t *testing.T) {
	svc, store, _ := newTestService(t, highlight.Plain{})
	stars := NewStarService(store)
	ctx := context.Background()

	paste, err := svc.CreateWithFiles(ctx, "jeff@example.com", "", "", []FileInput{
		{Filename: "x.txt", Content: []byte("x")},
	})
	if err != nil {
		t.Fatalf("CreateWithFiles failed: %v", err)
	}

	if _, err := stars.Star(ctx, "alice@example.com", paste.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if err := stars.Unstar(ctx, "alice@example.com", paste.ID); err != nil {
		t.Fatalf("Unstar failed: %v", err)
	}

	listed, err := stars.ListStarredPastes(ctx, "alice@example.com", 0)
	if err != nil {
		t.Fatalf("ListStarredPastes failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected no pastes after unstar, got %d", len(listed))
	}
}
