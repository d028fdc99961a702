package keyword

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryIndex_UpsertAndQuery(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()

	_ = m.Upsert(ctx, "d1", []string{"cat", "sat", "cat"})
	_ = m.Upsert(ctx, "d2", []string{"dog", "ran"})
	_ = m.Upsert(ctx, "d3", []string{"cat", "dog"})
	_ = m.Upsert(ctx, "d4", []string{"fish"})

	scores, err := m.Query(ctx, []string{"cat"})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 candidates, got %v", scores)
	}
	// Same idf for both; d1 has tf=2, d3 tf=1, and idf=log(4/3) > 0.
	if scores["d1"] <= scores["d3"] {
		t.Errorf("d1 (tf=2) should outscore d3 (tf=1): %v", scores)
	}
	if _, ok := scores["d2"]; ok {
		t.Error("d2 does not contain the query token")
	}
}

func TestMemoryIndex_DisjointVocabularyRanking(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	_ = m.Upsert(ctx, "d1", []string{"alpha", "beta"})
	_ = m.Upsert(ctx, "d2", []string{"gamma", "delta"})

	scores, _ := m.Query(ctx, []string{"alpha"})
	if _, ok := scores["d1"]; !ok {
		t.Errorf("d1 contains the query term and must be a candidate: %v", scores)
	}
	if _, ok := scores["d2"]; ok {
		t.Errorf("d2 shares no vocabulary with the query and must not be a candidate: %v", scores)
	}
}

func TestMemoryIndex_UpsertReplacesPostings(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	_ = m.Upsert(ctx, "d1", []string{"old", "shared"})
	_ = m.Upsert(ctx, "d1", []string{"new", "shared"})

	if got := m.Postings("old"); len(got) != 0 {
		t.Errorf("stale posting for removed token: %v", got)
	}
	if got := m.Postings("new"); len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("missing posting for new token: %v", got)
	}
	if m.DocCount() != 1 {
		t.Errorf("DocCount=%d", m.DocCount())
	}
}

func TestMemoryIndex_UpsertIdempotent(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	tokens := []string{"the", "cat", "sat", "cat"}
	_ = m.Upsert(ctx, "d1", tokens)
	first := m.Dump()
	_ = m.Upsert(ctx, "d1", tokens)
	second := m.Dump()

	if len(first) != len(second) {
		t.Fatalf("dump size changed: %d vs %d", len(first), len(second))
	}
	for id, tf := range first {
		for tok, c := range tf {
			if second[id][tok] != c {
				t.Errorf("tf changed for %s/%s: %d vs %d", id, tok, c, second[id][tok])
			}
		}
	}
	if got := m.Postings("cat"); len(got) != 1 || got[0].TF != 2 {
		t.Errorf("posting should be unchanged: %v", got)
	}
}

func TestMemoryIndex_Remove(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	_ = m.Upsert(ctx, "d1", []string{"cat", "sat"})
	_ = m.Upsert(ctx, "d2", []string{"cat"})

	present, err := m.Remove(ctx, "d1")
	if err != nil || !present {
		t.Fatalf("remove: present=%v err=%v", present, err)
	}
	if got := m.Postings("sat"); len(got) != 0 {
		t.Errorf("empty posting list should be deleted: %v", got)
	}
	if got := m.Postings("cat"); len(got) != 1 || got[0].ID != "d2" {
		t.Errorf("d1 should be gone from cat postings: %v", got)
	}
	if present, _ := m.Remove(ctx, "d1"); present {
		t.Error("second remove should report absent")
	}
	if m.TermCount() != 1 {
		t.Errorf("TermCount=%d", m.TermCount())
	}
}

func TestMemoryIndex_QueryUnknownTokens(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	_ = m.Upsert(ctx, "d1", []string{"cat"})

	scores, err := m.Query(ctx, []string{"zebra", "unicorn"})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty result, got %v", scores)
	}
}

func TestMemoryIndex_PostingsOrdered(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	for _, id := range []string{"d9", "d1", "d5", "d3"} {
		_ = m.Upsert(ctx, id, []string{"cat"})
	}
	got := m.Postings("cat")
	for i := 1; i < len(got); i++ {
		if got[i-1].ID >= got[i].ID {
			t.Fatalf("postings not ordered by id: %v", got)
		}
	}
}

func TestMemoryIndex_ConcurrentUpserts(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%03d", i)
			if err := m.Upsert(ctx, id, []string{"shared", fmt.Sprintf("unique%d", i)}); err != nil {
				t.Errorf("upsert %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if m.DocCount() != n {
		t.Fatalf("DocCount=%d, want %d", m.DocCount(), n)
	}
	got := m.Postings("shared")
	if len(got) != n {
		t.Fatalf("shared postings=%d, want %d", len(got), n)
	}
	seen := make(map[string]bool, n)
	for _, p := range got {
		if seen[p.ID] {
			t.Fatalf("duplicate posting for %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestMemoryIndex_ConcurrentReadsDuringWrites(t *testing.T) {
	m := NewMemoryIndex()
	ctx := context.Background()
	_ = m.Upsert(ctx, "seed", []string{"cat", "dog"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = m.Upsert(ctx, fmt.Sprintf("w%d", i), []string{"cat", "dog", "bird"})
		}
	}()
	for i := 0; i < 200; i++ {
		scores, err := m.Query(ctx, []string{"cat", "dog"})
		if err != nil {
			t.Fatal(err)
		}
		if scores["seed"] == 0 && len(scores) > 0 {
			// seed always contains both tokens; its score may legitimately be
			// negative or positive depending on idf, but it must be a candidate.
			if _, ok := scores["seed"]; !ok {
				t.Fatal("seed document missing from candidates")
			}
		}
	}
	<-done
}
