package indexer

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/snapshot"
)

// termDumper is implemented by keyword backends that can export their full
// posting state for snapshots.
type termDumper interface {
	Dump() map[string]map[string]int
}

// vectorDumper is implemented by vector backends that can export their stored
// vectors for snapshots.
type vectorDumper interface {
	Dump() map[string][]float32
}

// Snapshot captures the current keyword and vector index state. It fails when
// a configured backend cannot export its state (the bleve and hnsw backends
// manage their own persistence).
func (idx *Indexer) Snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	kw, ok := idx.keywordIndex.(termDumper)
	if !ok {
		return nil, fmt.Errorf("keyword backend does not support snapshots")
	}
	vec, ok := idx.vectorIndex.(vectorDumper)
	if !ok {
		return nil, fmt.Errorf("vector backend does not support snapshots")
	}

	terms := kw.Dump()
	vectors := vec.Dump()

	ids := make(map[string]struct{}, len(terms)+len(vectors))
	for id := range terms {
		ids[id] = struct{}{}
	}
	for id := range vectors {
		ids[id] = struct{}{}
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	snap := &snapshot.Snapshot{
		Dimensions: idx.vectorIndex.Dimensions(),
		Entries:    make([]snapshot.Entry, 0, len(sorted)),
	}
	for _, id := range sorted {
		snap.Entries = append(snap.Entries, snapshot.Entry{
			DocumentID: id,
			Terms:      terms[id],
			Vector:     vectors[id],
		})
	}
	return snap, nil
}

// Restore replays a snapshot into the keyword and vector indexes. Vectors are
// only restored when the snapshot dimensions match the configured index.
func (idx *Indexer) Restore(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap.Dimensions != 0 && snap.Dimensions != idx.vectorIndex.Dimensions() {
		return fmt.Errorf("snapshot dimensions %d do not match index dimensions %d",
			snap.Dimensions, idx.vectorIndex.Dimensions())
	}

	for _, entry := range snap.Entries {
		if len(entry.Terms) > 0 {
			tokens := expandTerms(entry.Terms)
			if err := idx.keywordIndex.Upsert(ctx, entry.DocumentID, tokens); err != nil {
				return fmt.Errorf("restore keyword state for %s: %w", entry.DocumentID, err)
			}
		}
		if len(entry.Vector) > 0 {
			if err := idx.vectorIndex.Upsert(ctx, entry.DocumentID, entry.Vector); err != nil {
				return fmt.Errorf("restore vector for %s: %w", entry.DocumentID, err)
			}
		}
	}

	if idx.logger != nil {
		idx.logger.Info("index state restored from snapshot",
			zap.Int("documents", len(snap.Entries)))
	}
	return nil
}

// expandTerms converts a term frequency map back into a token stream.
func expandTerms(terms map[string]int) []string {
	var tokens []string
	for token, count := range terms {
		for i := 0; i < count; i++ {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
