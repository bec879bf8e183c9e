package search

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// MemoryBackend implements Backend with an in-process map. It backs tests
// and the memory storage mode. Matching is substring-based rather than
// tokenized; good enough for development.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string]*models.SearchDocument
}

// NewMemoryBackend creates an empty in-memory search backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string]*models.SearchDocument)}
}

func (m *MemoryBackend) Put(ctx context.Context, doc *models.SearchDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *doc
	clone.Files = append([]models.SearchDocumentFile(nil), doc.Files...)
	m.docs[doc.ID] = &clone
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *MemoryBackend) Query(ctx context.Context, query, cursor string, limit int) ([]string, string, bool, error) {
	offset, err := decodeOffsetCursor(cursor)
	if err != nil {
		return nil, "", false, err
	}

	parsed := parseQuery(query)

	m.mu.RLock()
	var matched []*models.SearchDocument
	for _, doc := range m.docs {
		if matchDocument(doc, parsed) {
			matched = append(matched, doc)
		}
	}
	m.mu.RUnlock()

	// Most recent first; ID breaks rank ties for a stable order.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rank != matched[j].Rank {
			return matched[i].Rank > matched[j].Rank
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return nil, "", false, nil
	}
	matched = matched[offset:]

	hasMore := len(matched) > limit
	if hasMore {
		matched = matched[:limit]
	}

	ids := make([]string, 0, len(matched))
	for _, doc := range matched {
		ids = append(ids, doc.ID)
	}

	var next string
	if hasMore {
		next = encodeOffsetCursor(offset + len(ids))
	}
	return ids, next, hasMore, nil
}

// Get returns a stored document. Test helper.
func (m *MemoryBackend) Get(id string) *models.SearchDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil
	}
	clone := *doc
	clone.Files = append([]models.SearchDocumentFile(nil), doc.Files...)
	return &clone
}

// Len reports the number of stored documents. Test helper.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.docs)
}

func matchDocument(doc *models.SearchDocument, q parsedQuery) bool {
	if q.Author != "" && doc.Author != q.Author {
		return false
	}

	if q.ContentType != "" {
		found := false
		for _, f := range doc.Files {
			if f.ContentType == q.ContentType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.Filename != "" {
		found := false
		for _, f := range doc.Files {
			if f.Filename == q.Filename {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, word := range q.FreeText {
		if !docContains(doc, word) {
			return false
		}
	}
	return true
}

func docContains(doc *models.SearchDocument, word string) bool {
	word = strings.ToLower(word)
	if strings.Contains(strings.ToLower(doc.Description), word) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Author), word) {
		return true
	}
	for _, f := range doc.Files {
		if strings.Contains(strings.ToLower(f.Filename), word) {
			return true
		}
		if strings.Contains(strings.ToLower(f.Content), word) {
			return true
		}
	}
	return false
}

func encodeOffsetCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeOffsetCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor: %w", err)
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid cursor: %q", cursor)
	}
	return offset, nil
}
