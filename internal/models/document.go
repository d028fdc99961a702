// Package models defines core data structures for documents, queries, and search results.
package models

import "time"

// Document represents a stored document with metadata.
// The retrieval engine indexes (ID, Content); raw bytes stay with storage.
type Document struct {
	ID        string                 `json:"id" db:"id"`
	Title     string                 `json:"title" db:"title"`
	Content   string                 `json:"content" db:"content"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentInput is the input for creating or updating a document.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RemoveResult reports which indexes a document was removed from.
// Removal is best-effort per index; one side failing never blocks the other.
type RemoveResult struct {
	KeywordRemoved bool `json:"keyword_removed"`
	VectorRemoved  bool `json:"vector_removed"`
}
