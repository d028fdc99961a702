package keyword

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestBleve(t *testing.T) *BleveIndex {
	t.Helper()
	b, err := NewBleveIndex(filepath.Join(t.TempDir(), "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBleveIndex_UpsertQuery(t *testing.T) {
	b := newTestBleve(t)
	ctx := context.Background()

	if err := b.Upsert(ctx, "d1", []string{"cat", "sat"}); err != nil {
		t.Fatal(err)
	}
	if err := b.Upsert(ctx, "d2", []string{"dog", "ran"}); err != nil {
		t.Fatal(err)
	}

	scores, err := b.Query(ctx, []string{"cat"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := scores["d1"]; !ok {
		t.Errorf("d1 should match: %v", scores)
	}
	if _, ok := scores["d2"]; ok {
		t.Errorf("d2 should not match: %v", scores)
	}
	if b.DocCount() != 2 {
		t.Errorf("DocCount=%d", b.DocCount())
	}
}

func TestBleveIndex_Remove(t *testing.T) {
	b := newTestBleve(t)
	ctx := context.Background()
	_ = b.Upsert(ctx, "d1", []string{"cat"})

	present, err := b.Remove(ctx, "d1")
	if err != nil || !present {
		t.Fatalf("remove: present=%v err=%v", present, err)
	}
	scores, _ := b.Query(ctx, []string{"cat"})
	if len(scores) != 0 {
		t.Errorf("removed document still matches: %v", scores)
	}
	if present, _ := b.Remove(ctx, "d1"); present {
		t.Error("second remove should report absent")
	}
}

func TestBleveIndex_EmptyQuery(t *testing.T) {
	b := newTestBleve(t)
	scores, err := b.Query(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty result, got %v", scores)
	}
}

func TestNew_Backends(t *testing.T) {
	idx, err := New(BackendMemory, "")
	if err != nil {
		t.Fatal(err)
	}
	_ = idx.Close()
	if _, err := New("bogus", ""); err == nil {
		t.Error("unknown backend should be rejected")
	}
}
