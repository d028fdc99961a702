package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/hyperjump/tansaku/pkg/utils"
)

// HashEmbedder derives a unit vector from a content hash of the text. It is
// the placeholder provider: deterministic and total, but the vectors carry no
// semantic meaning, so nearest neighbors are only meaningful for identical or
// near-identical text. Intended for tests and for running without a model.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a hash-based embedder of the given dimension.
func NewHashEmbedder(dimensions int) (*HashEmbedder, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &HashEmbedder{dimensions: dimensions}, nil
}

// Embed returns a deterministic unit vector derived from the text hash.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	emb := make([]float32, e.dimensions)
	for i := range emb {
		emb[i] = float32(math.Sin(float64(seed%math.MaxInt32)*float64(i+1)) * 0.1)
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
