// Package search keeps a queryable projection of paste metadata and content
// in sync with the canonical stores. Consistency is eventual: documents are
// written after the paste is persisted, and divergence (index entries for
// pastes that no longer resolve) is self-healed during searches.
package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/davidwtbuxton/captain-pasty/internal/metrics"
	"github.com/davidwtbuxton/captain-pasty/models"
	"github.com/davidwtbuxton/captain-pasty/storage"
)

// DefaultPageSize is used when a search is requested without a limit.
const DefaultPageSize = 20

// Index maintains the search projection. It reads pastes and file content
// only; it never writes to the canonical stores.
type Index struct {
	backend Backend
	objects storage.ObjectStore
	pastes  storage.PasteStore

	// deferStaleDelete schedules best-effort removal of dangling documents.
	// Replaced in tests to run synchronously.
	deferStaleDelete func(ids []string)
}

// New creates an Index over a backend and the canonical stores.
func New(backend Backend, objects storage.ObjectStore, pastes storage.PasteStore) *Index {
	ix := &Index{
		backend: backend,
		objects: objects,
		pastes:  pastes,
	}
	ix.deferStaleDelete = func(ids []string) {
		go ix.deleteStaleDocs(ids)
	}
	return ix
}

// IndexPaste builds the paste's search document and replaces any existing
// document with the same ID. Re-indexing an unchanged paste produces an
// identical document, so the call is safe to repeat.
func (ix *Index) IndexPaste(ctx context.Context, paste *models.Paste) error {
	doc := models.NewSearchDocument(paste)

	for _, f := range paste.Files {
		content, err := ix.objects.Get(ctx, f.StoragePath)
		if err != nil {
			// Index what we can; the body catches up on the next re-index.
			log.Printf("[WARN] search: could not read %s for indexing: %v", f.StoragePath, err)
		}
		doc.Files = append(doc.Files, models.SearchDocumentFile{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Content:     string(content),
		})
	}

	if err := ix.backend.Put(ctx, doc); err != nil {
		return fmt.Errorf("failed to index paste %s: %w", paste.ID, err)
	}
	return nil
}

// QueryTerm is one search filter: the backend query term and the
// human-readable label shown with the results.
type QueryTerm struct {
	Term  string
	Label string
}

// BuildQuery returns one term per non-empty filter. Field values are quoted
// for the backend's query syntax; free text passes through as given. The
// caller joins terms with implicit AND semantics.
func BuildQuery(params map[string]string) []QueryTerm {
	type filter struct {
		name string
		make func(string) QueryTerm
	}

	filters := []filter{
		{"author", func(v string) QueryTerm {
			return QueryTerm{Term: fmt.Sprintf("author:%s", quote(v)), Label: "by " + v}
		}},
		{"content_type", func(v string) QueryTerm {
			return QueryTerm{Term: fmt.Sprintf("content_type:%s", quote(v)), Label: fmt.Sprintf("content type like %q", v)}
		}},
		{"filename", func(v string) QueryTerm {
			return QueryTerm{Term: fmt.Sprintf("filename:%s", quote(v)), Label: fmt.Sprintf("filename like %q", v)}
		}},
		{"q", func(v string) QueryTerm {
			return QueryTerm{Term: v, Label: fmt.Sprintf("matching %q", v)}
		}},
	}

	var terms []QueryTerm
	for _, f := range filters {
		if value := params[f.name]; value != "" {
			terms = append(terms, f.make(value))
		}
	}
	return terms
}

// JoinTerms assembles the backend query string from BuildQuery's terms.
func JoinTerms(terms []QueryTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.Term)
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// Result is one page of search results with any dangling index entries
// already filtered out.
type Result struct {
	Pastes     []*models.Paste
	HasNext    bool
	NextCursor string
}

// Search runs a query against the backend and resolves the returned IDs to
// pastes. IDs that no longer resolve are excluded from the page and
// scheduled for asynchronous removal from the backend; a read error for a
// single document never fails the whole page.
func (ix *Index) Search(ctx context.Context, query, cursor string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	metrics.SearchQueries.Inc()

	ids, next, hasMore, err := ix.backend.Query(ctx, query, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	result := &Result{HasNext: hasMore, NextCursor: next}
	var stale []string

	for _, id := range ids {
		paste, err := ix.pastes.GetPaste(ctx, id)
		if err != nil {
			log.Printf("[WARN] search: could not resolve paste %s: %v", id, err)
			continue
		}
		if paste == nil {
			stale = append(stale, id)
			continue
		}
		result.Pastes = append(result.Pastes, paste)
	}

	if len(stale) > 0 {
		log.Printf("[DEBUG] search: bogus results %v", stale)
		ix.deferStaleDelete(stale)
	}

	return result, nil
}

// deleteStaleDocs removes documents whose pastes are gone. Failures are
// logged and dropped: the next search that sees the document schedules the
// deletion again.
func (ix *Index) deleteStaleDocs(ids []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ix.backend.Delete(ctx, ids); err != nil {
		log.Printf("[ERROR] search: error deleting stale search results %v: %v", ids, err)
		return
	}
	metrics.StaleDocsDeleted.Add(float64(len(ids)))
}
