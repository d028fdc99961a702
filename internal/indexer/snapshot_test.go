package indexer

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/snapshot"
)

func TestSnapshotRestore(t *testing.T) {
	idx, _, kw, _ := newTestIndexer(t, nil)
	ctx := context.Background()

	docs := map[string]string{
		"doc1": "cats purr and chase mice",
		"doc2": "dogs bark in the park",
		"doc3": "fish swim in the ocean",
	}
	for id, content := range docs {
		if err := idx.IndexDocument(ctx, &models.DocumentInput{ID: id, Content: content}); err != nil {
			t.Fatalf("IndexDocument(%s) failed: %v", id, err)
		}
	}

	snap, err := idx.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap.Entries))
	}

	var buf bytes.Buffer
	if err := snapshot.Write(&buf, snap); err != nil {
		t.Fatalf("snapshot write failed: %v", err)
	}
	loaded, err := snapshot.Read(&buf)
	if err != nil {
		t.Fatalf("snapshot read failed: %v", err)
	}

	// Restore into a fresh indexer and compare index state.
	restored, _, kw2, vec2 := newTestIndexer(t, nil)
	if err := restored.Restore(ctx, loaded); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if kw2.DocCount() != kw.DocCount() {
		t.Errorf("keyword doc count mismatch: %d vs %d", kw2.DocCount(), kw.DocCount())
	}
	if vec2.Size() != 3 {
		t.Errorf("expected 3 restored vectors, got %d", vec2.Size())
	}

	origScores, err := kw.Query(ctx, []string{"cats", "purr"})
	if err != nil {
		t.Fatal(err)
	}
	restoredScores, err := kw2.Query(ctx, []string{"cats", "purr"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(origScores, restoredScores) {
		t.Errorf("keyword scores differ after restore:\nwant %v\ngot  %v", origScores, restoredScores)
	}
}

func TestRestore_DimensionMismatch(t *testing.T) {
	idx, _, _, _ := newTestIndexer(t, nil)

	snap := &snapshot.Snapshot{Dimensions: 999}
	if err := idx.Restore(context.Background(), snap); err == nil {
		t.Error("expected error for mismatched snapshot dimensions")
	}
}

func TestSnapshot_SkipsVectorlessDocuments(t *testing.T) {
	idx, _, _, _ := newTestIndexer(t, &failingEmbedder{dims: 16})
	ctx := context.Background()

	_ = idx.IndexDocument(ctx, &models.DocumentInput{ID: "doc1", Content: "keyword only document"})

	snap, err := idx.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap.Entries))
	}
	if snap.Entries[0].Vector != nil {
		t.Error("expected nil vector for keyword-only document")
	}
	if len(snap.Entries[0].Terms) == 0 {
		t.Error("expected terms for keyword-only document")
	}
}
