package vector

import (
	"context"
	"errors"
	"testing"
)

func newTestHNSW(t *testing.T, dims int) *HNSWIndex {
	t.Helper()
	h, err := NewHNSWIndex(Options{Backend: BackendHNSW, Dimensions: dims, Metric: MetricCosine})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHNSWIndex_UpsertSearch(t *testing.T) {
	h := newTestHNSW(t, 3)
	ctx := context.Background()

	_ = h.Upsert(ctx, "a", []float32{1, 0, 0})
	_ = h.Upsert(ctx, "b", []float32{0.9, 0.1, 0})
	_ = h.Upsert(ctx, "c", []float32{0, 1, 0})

	got, err := h.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("nearest should be a: %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Distance > got[i].Distance {
			t.Errorf("distances not ascending: %v", got)
		}
	}
}

func TestHNSWIndex_DimensionMismatch(t *testing.T) {
	h := newTestHNSW(t, 3)
	ctx := context.Background()
	var dimErr *DimensionError
	if err := h.Upsert(ctx, "bad", []float32{1}); !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
	if h.Size() != 0 {
		t.Errorf("failed upsert should not change size")
	}
}

func TestHNSWIndex_LazyRemove(t *testing.T) {
	h := newTestHNSW(t, 2)
	ctx := context.Background()
	_ = h.Upsert(ctx, "x", []float32{1, 0})
	_ = h.Upsert(ctx, "y", []float32{0, 1})

	removed, err := h.Remove(ctx, "x")
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	if h.Size() != 1 {
		t.Errorf("Size=%d", h.Size())
	}
	got, _ := h.Search(ctx, []float32{1, 0}, 2)
	for _, n := range got {
		if n.ID == "x" {
			t.Error("removed id surfaced in results")
		}
	}
	if removed, _ := h.Remove(ctx, "x"); removed {
		t.Error("second remove should report absent")
	}
}

func TestHNSWIndex_UpsertReplaces(t *testing.T) {
	h := newTestHNSW(t, 2)
	ctx := context.Background()
	_ = h.Upsert(ctx, "d", []float32{0, 1})
	_ = h.Upsert(ctx, "d", []float32{1, 0})
	if h.Size() != 1 {
		t.Fatalf("Size=%d", h.Size())
	}
	got, _ := h.Search(ctx, []float32{1, 0}, 1)
	if len(got) != 1 || got[0].ID != "d" || got[0].Distance > 1e-5 {
		t.Errorf("replacement vector should match query exactly: %v", got)
	}
}

func TestHNSWIndex_EmptySearch(t *testing.T) {
	h := newTestHNSW(t, 2)
	got, err := h.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("empty index should return no neighbors: %v", got)
	}
}

func TestNew_Backends(t *testing.T) {
	idx, err := New(Options{Backend: BackendMemory, Dimensions: 4})
	if err != nil {
		t.Fatal(err)
	}
	_ = idx.Close()
	if _, err := New(Options{Backend: "bogus", Dimensions: 4}); err == nil {
		t.Error("unknown backend should be rejected")
	}
	if _, err := New(Options{Backend: BackendMemory, Dimensions: 0}); err == nil {
		t.Error("zero dimensions should be rejected")
	}
}
