package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWIndex is an approximate nearest-neighbor index on a pure-Go HNSW graph.
// It trades exact recall for sub-linear query time; with default parameters
// recall stays high, but a true neighbor can be missed, so it is only
// selected explicitly via configuration. Results keep the contract ordering
// (ascending distance, ties by ascending id) over the neighbors the graph
// returns.
type HNSWIndex struct {
	mu         sync.RWMutex
	graph      *hnsw.Graph[uint64]
	dimensions int
	metric     Metric
	dist       func(a, b []float32) float64

	// The graph keys on uint64; ids map both ways. Deletes are lazy: the node
	// stays in the graph but loses its mapping, because deleting the last
	// graph node corrupts the graph in coder/hnsw.
	idToKey map[string]uint64
	keyToID map[uint64]string
	nextKey uint64
}

// NewHNSWIndex creates an HNSW index from opts.
func NewHNSWIndex(opts Options) (*HNSWIndex, error) {
	metric := opts.Metric
	switch metric {
	case "":
		metric = MetricCosine
	case MetricCosine, MetricEuclidean:
	default:
		return nil, fmt.Errorf("unknown metric: %s (supported: cosine, euclidean)", metric)
	}

	graph := hnsw.NewGraph[uint64]()
	if metric == MetricEuclidean {
		graph.Distance = hnsw.EuclideanDistance
	} else {
		graph.Distance = hnsw.CosineDistance
	}
	if opts.HNSWM > 0 {
		graph.M = opts.HNSWM
	} else {
		graph.M = 16
	}
	if opts.HNSWEfSearch > 0 {
		graph.EfSearch = opts.HNSWEfSearch
	} else {
		graph.EfSearch = 20
	}
	graph.Ml = 0.25

	return &HNSWIndex{
		graph:      graph,
		dimensions: opts.Dimensions,
		metric:     metric,
		dist:       distanceFunc(metric),
		idToKey:    make(map[string]uint64),
		keyToID:    make(map[uint64]string),
	}, nil
}

// Upsert inserts or replaces the vector for id.
func (h *HNSWIndex) Upsert(ctx context.Context, id string, vec []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vec) != h.dimensions {
		return &DimensionError{Expected: h.dimensions, Got: len(vec)}
	}
	stored := make([]float32, h.dimensions)
	copy(stored, vec)
	if h.metric == MetricCosine {
		normalizeL2(stored)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if oldKey, exists := h.idToKey[id]; exists {
		delete(h.keyToID, oldKey)
		delete(h.idToKey, id)
	}
	key := h.nextKey
	h.nextKey++
	h.graph.Add(hnsw.MakeNode(key, stored))
	h.idToKey[id] = key
	h.keyToID[key] = id
	return nil
}

// Remove lazily deletes the vector for id.
func (h *HNSWIndex) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	key, ok := h.idToKey[id]
	if !ok {
		return false, nil
	}
	delete(h.keyToID, key)
	delete(h.idToKey, id)
	return true, nil
}

// Search returns up to k approximate neighbors. Orphaned graph nodes (lazily
// deleted or replaced) are filtered out, so the graph is over-queried to
// compensate.
func (h *HNSWIndex) Search(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != h.dimensions {
		return nil, &DimensionError{Expected: h.dimensions, Got: len(query)}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.idToKey) == 0 {
		return nil, nil
	}

	q := query
	if h.metric == MetricCosine {
		q = make([]float32, h.dimensions)
		copy(q, query)
		normalizeL2(q)
	}

	orphans := h.graph.Len() - len(h.idToKey)
	nodes := h.graph.Search(q, k+orphans)

	out := make([]Neighbor, 0, k)
	for _, node := range nodes {
		id, live := h.keyToID[node.Key]
		if !live {
			continue
		}
		out = append(out, Neighbor{ID: id, Distance: float64(h.graph.Distance(q, node.Value))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

// Size returns the number of live vectors.
func (h *HNSWIndex) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToKey)
}

// Dimensions returns the index dimension.
func (h *HNSWIndex) Dimensions() int {
	return h.dimensions
}

// Close is a no-op for HNSWIndex.
func (h *HNSWIndex) Close() error {
	return nil
}
