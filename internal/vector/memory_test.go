package vector

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMemoryIndex_SearchOrdering(t *testing.T) {
	m, err := NewMemoryIndex(3, MetricEuclidean)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	_ = m.Upsert(ctx, "far", []float32{10, 0, 0})
	_ = m.Upsert(ctx, "near", []float32{1, 0, 0})
	_ = m.Upsert(ctx, "mid", []float32{5, 0, 0})

	got, err := m.Search(ctx, []float32{0, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].ID != "near" || got[1].ID != "mid" || got[2].ID != "far" {
		t.Errorf("wrong order: %v", got)
	}
	if got[0].Distance > got[1].Distance || got[1].Distance > got[2].Distance {
		t.Errorf("distances not ascending: %v", got)
	}
}

func TestMemoryIndex_TiesBrokenByID(t *testing.T) {
	m, _ := NewMemoryIndex(2, MetricEuclidean)
	ctx := context.Background()
	// Equidistant from the origin query.
	_ = m.Upsert(ctx, "b", []float32{1, 0})
	_ = m.Upsert(ctx, "a", []float32{0, 1})
	_ = m.Upsert(ctx, "c", []float32{-1, 0})

	got, err := m.Search(ctx, []float32{0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("ties should break by ascending id: %v", got)
	}
}

func TestMemoryIndex_KLargerThanIndex(t *testing.T) {
	m, _ := NewMemoryIndex(2, MetricCosine)
	ctx := context.Background()
	_ = m.Upsert(ctx, "only", []float32{1, 0})

	got, err := m.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 result, got %d", len(got))
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	m, _ := NewMemoryIndex(3, MetricCosine)
	ctx := context.Background()
	_ = m.Upsert(ctx, "ok", []float32{1, 0, 0})

	err := m.Upsert(ctx, "bad", []float32{1, 0})
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("wrong fields: %+v", dimErr)
	}
	// The failed upsert must leave the index unchanged.
	if m.Size() != 1 {
		t.Errorf("Size=%d after failed upsert", m.Size())
	}
	if _, err := m.Search(ctx, []float32{1, 0}, 1); !errors.As(err, &dimErr) {
		t.Errorf("query dimension mismatch should fail: %v", err)
	}
}

func TestMemoryIndex_RemoveAbsentIsNoop(t *testing.T) {
	m, _ := NewMemoryIndex(2, MetricCosine)
	ctx := context.Background()
	removed, err := m.Remove(ctx, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("absent id should report not removed")
	}
}

func TestMemoryIndex_UpsertReplaces(t *testing.T) {
	m, _ := NewMemoryIndex(2, MetricEuclidean)
	ctx := context.Background()
	_ = m.Upsert(ctx, "d", []float32{10, 0})
	_ = m.Upsert(ctx, "d", []float32{1, 0})

	if m.Size() != 1 {
		t.Fatalf("Size=%d", m.Size())
	}
	got, _ := m.Search(ctx, []float32{0, 0}, 1)
	if math.Abs(got[0].Distance-1) > 1e-6 {
		t.Errorf("old vector still live: %v", got)
	}
}

func TestMemoryIndex_Deterministic(t *testing.T) {
	m, _ := NewMemoryIndex(4, MetricCosine)
	ctx := context.Background()
	vecs := map[string][]float32{
		"a": {1, 0, 0, 0},
		"b": {0.9, 0.1, 0, 0},
		"c": {0, 1, 0, 0},
		"d": {0.5, 0.5, 0, 0},
	}
	for id, v := range vecs {
		_ = m.Upsert(ctx, id, v)
	}
	q := []float32{1, 0, 0, 0}
	first, err := m.Search(ctx, q, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := m.Search(ctx, q, 4)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("search not deterministic at %d: %v vs %v", j, first, again)
			}
		}
	}
}

func TestMemoryIndex_CosineNormalizes(t *testing.T) {
	m, _ := NewMemoryIndex(2, MetricCosine)
	ctx := context.Background()
	// Same direction, different magnitudes: identical cosine distance.
	_ = m.Upsert(ctx, "small", []float32{1, 1})
	_ = m.Upsert(ctx, "large", []float32{100, 100})

	got, _ := m.Search(ctx, []float32{1, 1}, 2)
	if math.Abs(got[0].Distance-got[1].Distance) > 1e-6 {
		t.Errorf("magnitude should not matter under cosine: %v", got)
	}
}
