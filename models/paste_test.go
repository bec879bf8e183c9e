package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRecomputeStats(t *testing.T) {
	p := &Paste{
		Files: []PasteFile{
			{Filename: "a.txt", NumLines: 2},
			{Filename: "b.txt", NumLines: 1},
		},
	}

	p.RecomputeStats()

	if p.NumFiles != 2 {
		t.Errorf("expected NumFiles 2, got %d", p.NumFiles)
	}
	if p.NumLines != 3 {
		t.Errorf("expected NumLines 3, got %d", p.NumLines)
	}
}

func TestRecomputeStatsEmpty(t *testing.T) {
	p := &Paste{}
	p.RecomputeStats()

	if p.NumFiles != 0 || p.NumLines != 0 {
		t.Errorf("expected zero stats, got files=%d lines=%d", p.NumFiles, p.NumLines)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		author   string
		filename string
		id       string
		want     string
	}{
		{"jeff@example.com", "setup.py", "x1", "jeff@example.com / setup.py"},
		{"", "setup.py", "x1", "anonymous / setup.py"},
		{"jeff@example.com", "", "x1", "jeff@example.com / x1"},
		{"", "", "x1", "anonymous / x1"},
	}

	for _, tt := range tests {
		p := &Paste{ID: tt.id, Author: tt.author, Filename: tt.filename}
		if got := p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.author, tt.filename, got, tt.want)
		}
	}
}

func TestPublicFileLinks(t *testing.T) {
	p := &Paste{
		ID:      "01ABC",
		Created: time.Date(2016, 12, 25, 0, 0, 0, 0, time.UTC),
		Files: []PasteFile{
			{Filename: "example.txt", RelativePath: "1/example.txt"},
		},
	}

	pub := p.Public("http://paste.example.com/raw")

	if len(pub.Files) != 1 {
		t.Fatalf("expected 1 public file, got %d", len(pub.Files))
	}
	want := "http://paste.example.com/raw/01ABC/1/example.txt"
	if pub.Files[0].Link != want {
		t.Errorf("expected link %q, got %q", want, pub.Files[0].Link)
	}
}

func TestStarID(t *testing.T) {
	if got := StarID("jeff@example.com", "1234"); got != "jeff@example.com/1234" {
		t.Errorf("unexpected star id: %q", got)
	}
}

func TestNewStarIsDeterministic(t *testing.T) {
	now := time.Now()
	a := NewStar("jeff@example.com", "1234", now)
	b := NewStar("jeff@example.com", "1234", now.Add(time.Hour))

	if a.ID != b.ID {
		t.Errorf("expected identical star ids, got %q and %q", a.ID, b.ID)
	}
}

func TestNewSearchDocumentRank(t *testing.T) {
	created := time.Date(2016, 12, 25, 10, 30, 0, 0, time.UTC)
	p := &Paste{ID: "01ABC", Created: created}

	doc := NewSearchDocument(p)

	if doc.Rank != created.Unix() {
		t.Errorf("expected rank %d, got %d", created.Unix(), doc.Rank)
	}
	if doc.ID != "01ABC" {
		t.Errorf("expected doc id to match paste id, got %q", doc.ID)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	nf := &NotFoundError{Kind: "paste", ID: "1234"}
	wrapped := fmt.Errorf("lookup: %w", nf)

	if !IsNotFound(wrapped) {
		t.Error("expected IsNotFound to see through wrapping")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("expected IsNotFound to be false for plain errors")
	}

	ve := &ValidationError{Reason: "no files"}
	if !IsValidation(fmt.Errorf("create: %w", ve)) {
		t.Error("expected IsValidation to see through wrapping")
	}

	se := &StorageError{Op: "put", Path: "pasty/x", Err: errors.New("io")}
	if se.Unwrap() == nil {
		t.Error("expected StorageError to unwrap")
	}
}
