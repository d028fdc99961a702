// Package vector provides vector index backends for nearest-neighbor search.
//
// The memory backend is an exact brute-force scan; hnsw is an approximate
// graph index for larger corpora. Both honor the same ordering contract:
// results ascending by distance, ties broken by ascending document id, at
// most k entries. The hnsw backend is approximate and may miss true
// neighbors within its recall tolerance.
package vector

import (
	"context"
	"fmt"
)

// Index defines vector storage and nearest-neighbor search.
// Every indexed document id has exactly one vector of the index dimension.
type Index interface {
	// Upsert stores or replaces the vector for id.
	Upsert(ctx context.Context, id string, vec []float32) error
	// Remove deletes the vector if present; absent ids are a no-op, not an
	// error. Returns whether a vector was removed.
	Remove(ctx context.Context, id string) (bool, error)
	// Search returns up to k neighbors of query, ascending by distance,
	// ties broken by ascending document id.
	Search(ctx context.Context, query []float32, k int) ([]Neighbor, error)
	Size() int
	Dimensions() int
	Close() error
}

// Neighbor is a single nearest-neighbor hit.
type Neighbor struct {
	ID       string
	Distance float64
}

// DimensionError reports a vector whose length does not match the index
// dimension. The index is left unchanged; vectors are never truncated or
// padded.
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Metric selects the distance function, fixed at construction.
type Metric string

const (
	// MetricCosine stores L2-normalized vectors; distance = 1 - cosine similarity.
	MetricCosine Metric = "cosine"
	// MetricEuclidean uses L2 distance on raw vectors.
	MetricEuclidean Metric = "euclidean"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendHNSW   = "hnsw"
)

// Options configures an index backend.
type Options struct {
	Backend    string
	Dimensions int
	Metric     Metric
	// HNSW graph parameters; zero values take the library defaults.
	HNSWM        int
	HNSWEfSearch int
}

// New creates a vector index of the configured backend.
func New(opts Options) (Index, error) {
	if opts.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", opts.Dimensions)
	}
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryIndex(opts.Dimensions, opts.Metric)
	case BackendHNSW:
		return NewHNSWIndex(opts)
	default:
		return nil, fmt.Errorf("unknown vector backend: %s (supported: memory, hnsw)", opts.Backend)
	}
}
