package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/tansaku/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorage_UpsertAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{
		ID:      "doc1",
		Title:   "First",
		Content: "hello world",
		Metadata: map[string]interface{}{
			"source": "test",
		},
	}
	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.Title != "First" || got.Content != "hello world" {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Metadata["source"] != "test" {
		t.Errorf("metadata did not round trip: %v", got.Metadata)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestSQLiteStorage_UpsertReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.UpsertDocument(ctx, &models.Document{ID: "doc1", Content: "old"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if err := s.UpsertDocument(ctx, &models.Document{ID: "doc1", Content: "new"}); err != nil {
		t.Fatalf("second UpsertDocument failed: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.Content != "new" {
		t.Errorf("expected replaced content, got %q", got.Content)
	}

	count, err := s.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document after replace, got %d", count)
	}
}

func TestSQLiteStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetDocument(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_Delete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.UpsertDocument(ctx, &models.Document{ID: "doc1", Content: "x"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	deleted, err := s.DeleteDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}

	deleted, err = s.DeleteDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("second DeleteDocument failed: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report no removed row")
	}

	if _, err := s.GetDocument(ctx, "doc1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_List(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.UpsertDocument(ctx, &models.Document{ID: id, Content: "content " + id}); err != nil {
			t.Fatalf("UpsertDocument failed: %v", err)
		}
	}

	docs, err := s.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	docs, err = s.ListDocuments(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListDocuments with offset failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document with limit 1, got %d", len(docs))
	}
}
