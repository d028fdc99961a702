// Package keyword provides the inverted index used for the keyword half of
// hybrid search.
package keyword

import (
	"context"
	"fmt"
)

// Index defines inverted-index operations over normalized tokens.
// Query results map document id to a keyword relevance score; an empty map
// (no query token known to the index) is a valid result, not an error.
type Index interface {
	// Upsert replaces the postings for id with the term frequencies of tokens.
	// Tokens the document no longer contains are removed. Atomic per document
	// with respect to concurrent readers.
	Upsert(ctx context.Context, id string, tokens []string) error
	// Remove deletes id from every posting list it appears in. Returns whether
	// the document was present.
	Remove(ctx context.Context, id string) (bool, error)
	// Query scores candidate documents for the given query tokens.
	Query(ctx context.Context, tokens []string) (map[string]float64, error)
	// DocCount returns the number of indexed documents.
	DocCount() int
	Close() error
}

// Posting records one document's term frequency within a token's posting list.
// Lists are ordered by ascending document id and contain each id at most once.
type Posting struct {
	ID string
	TF int
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendBleve  = "bleve"
)

// New creates a keyword index backend. The memory backend implements the
// tf-idf scoring contract; the bleve backend trades that for a persistent
// on-disk index with Bleve's own ranking.
func New(backend, blevePath string) (Index, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryIndex(), nil
	case BackendBleve:
		return NewBleveIndex(blevePath)
	default:
		return nil, fmt.Errorf("unknown keyword backend: %s (supported: memory, bleve)", backend)
	}
}
