package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// MemoryStore implements PasteStore with in-process maps. It backs tests
// and the memory storage mode.
type MemoryStore struct {
	mu     sync.RWMutex
	pastes map[string]*models.Paste
	stars  map[string]*models.Star
}

// NewMemoryStore creates an empty in-memory paste store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pastes: make(map[string]*models.Paste),
		stars:  make(map[string]*models.Star),
	}
}

func (m *MemoryStore) PutPaste(ctx context.Context, paste *models.Paste) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *paste
	clone.Files = append([]models.PasteFile(nil), paste.Files...)
	m.pastes[paste.ID] = &clone
	return nil
}

func (m *MemoryStore) GetPaste(ctx context.Context, id string) (*models.Paste, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paste, ok := m.pastes[id]
	if !ok {
		return nil, nil
	}
	clone := *paste
	clone.Files = append([]models.PasteFile(nil), paste.Files...)
	return &clone, nil
}

func (m *MemoryStore) ForEachPaste(ctx context.Context, fn func(*models.Paste) error) error {
	m.mu.RLock()
	snapshot := make([]*models.Paste, 0, len(m.pastes))
	for _, p := range m.pastes {
		clone := *p
		clone.Files = append([]models.PasteFile(nil), p.Files...)
		snapshot = append(snapshot, &clone)
	}
	m.mu.RUnlock()

	for _, p := range snapshot {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) GetOrInsertStar(ctx context.Context, star *models.Star) (*models.Star, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.stars[star.ID]; ok {
		clone := *existing
		return &clone, nil
	}
	clone := *star
	m.stars[star.ID] = &clone
	return star, nil
}

func (m *MemoryStore) DeleteStar(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stars, id)
	return nil
}

func (m *MemoryStore) ListStarsByAuthor(ctx context.Context, author string, limit int) ([]*models.Star, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stars []*models.Star
	for _, s := range m.stars {
		if s.Author == author {
			clone := *s
			stars = append(stars, &clone)
		}
	}

	sort.Slice(stars, func(i, j int) bool {
		if !stars[i].Created.Equal(stars[j].Created) {
			return stars[i].Created.After(stars[j].Created)
		}
		return stars[i].ID > stars[j].ID
	})

	if limit > 0 && len(stars) > limit {
		stars = stars[:limit]
	}
	return stars, nil
}

// DeletePaste removes a paste record outright. Not part of the PasteStore
// contract; tests use it to simulate index/store divergence.
func (m *MemoryStore) DeletePaste(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pastes, id)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
