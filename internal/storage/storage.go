// Package storage defines the persistence interface for documents.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/tansaku/internal/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Storage defines document persistence operations.
type Storage interface {
	// UpsertDocument inserts a document, replacing any existing document
	// with the same ID.
	UpsertDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) (bool, error)
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)

	Close() error
}
