package vector

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
)

const vectorShards = 32

// vectorShard holds a slice of the document id space. Vectors are copied on
// insert and never mutated, so a reader holding one never sees a partial write.
type vectorShard struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// MemoryIndex is a brute-force exact vector index. Search scans every stored
// vector, which is acceptable at moderate scale; use the hnsw backend when
// query latency matters more than exactness.
type MemoryIndex struct {
	dimensions int
	metric     Metric
	dist       func(a, b []float32) float64
	shards     [vectorShards]*vectorShard
}

// NewMemoryIndex creates a brute-force index of the given dimension and metric.
func NewMemoryIndex(dimensions int, metric Metric) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	switch metric {
	case MetricCosine, MetricEuclidean, "":
		if metric == "" {
			metric = MetricCosine
		}
	default:
		return nil, fmt.Errorf("unknown metric: %s (supported: cosine, euclidean)", metric)
	}
	m := &MemoryIndex{
		dimensions: dimensions,
		metric:     metric,
		dist:       distanceFunc(metric),
	}
	for i := range m.shards {
		m.shards[i] = &vectorShard{vectors: make(map[string][]float32)}
	}
	return m, nil
}

func (m *MemoryIndex) shardFor(id string) *vectorShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return m.shards[h.Sum32()%vectorShards]
}

// Upsert stores or replaces the vector for id. Wrong-length vectors fail with
// DimensionError and leave the index unchanged.
func (m *MemoryIndex) Upsert(ctx context.Context, id string, vec []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vec) != m.dimensions {
		return &DimensionError{Expected: m.dimensions, Got: len(vec)}
	}
	stored := make([]float32, m.dimensions)
	copy(stored, vec)
	if m.metric == MetricCosine {
		normalizeL2(stored)
	}
	s := m.shardFor(id)
	s.mu.Lock()
	s.vectors[id] = stored
	s.mu.Unlock()
	return nil
}

// Remove deletes the vector for id if present.
func (m *MemoryIndex) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := m.shardFor(id)
	s.mu.Lock()
	_, ok := s.vectors[id]
	if ok {
		delete(s.vectors, id)
	}
	s.mu.Unlock()
	return ok, nil
}

// Search scans all shards and returns the k nearest neighbors, ascending by
// distance with ties broken by ascending id. Two calls against unchanged
// state return identical ordered results.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != m.dimensions {
		return nil, &DimensionError{Expected: m.dimensions, Got: len(query)}
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}
	q := query
	if m.metric == MetricCosine {
		q = make([]float32, m.dimensions)
		copy(q, query)
		normalizeL2(q)
	}

	var candidates []Neighbor
	for _, s := range m.shards {
		s.mu.RLock()
		for id, vec := range s.vectors {
			candidates = append(candidates, Neighbor{ID: id, Distance: m.dist(q, vec)})
		}
		s.mu.RUnlock()
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].ID < candidates[j].ID
	})
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// Size returns the number of stored vectors.
func (m *MemoryIndex) Size() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.vectors)
		s.mu.RUnlock()
	}
	return n
}

// Dimensions returns the index dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Dump returns a copy of all stored vectors, used for snapshotting.
func (m *MemoryIndex) Dump() map[string][]float32 {
	out := make(map[string][]float32, m.Size())
	for _, s := range m.shards {
		s.mu.RLock()
		for id, vec := range s.vectors {
			cp := make([]float32, len(vec))
			copy(cp, vec)
			out[id] = cp
		}
		s.mu.RUnlock()
	}
	return out
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
