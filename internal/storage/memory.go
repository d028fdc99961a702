// Package storage provides an in-memory implementation of the Storage interface.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hyperjump/tansaku/internal/models"
)

// MemoryStorage implements Storage with an in-process map. Used for
// ephemeral runs and tests where no database file is wanted.
type MemoryStorage struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{docs: make(map[string]*models.Document)}
}

// UpsertDocument inserts or replaces a document.
func (m *MemoryStorage) UpsertDocument(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	stored := *doc
	if prev, ok := m.docs[doc.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.docs[doc.ID] = &stored

	doc.CreatedAt = stored.CreatedAt
	doc.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetDocument returns a document by ID.
func (m *MemoryStorage) GetDocument(_ context.Context, id string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := *doc
	return &copied, nil
}

// DeleteDocument removes a document by ID. It reports whether the document existed.
func (m *MemoryStorage) DeleteDocument(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.docs[id]
	delete(m.docs, id)
	return ok, nil
}

// ListDocuments returns documents with offset and limit, newest first.
func (m *MemoryStorage) ListDocuments(_ context.Context, offset, limit int) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*models.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		copied := *doc
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// CountDocuments returns the total number of documents.
func (m *MemoryStorage) CountDocuments(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.docs)), nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error { return nil }
