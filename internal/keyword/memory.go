package keyword

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"sync"
)

const (
	tokenShards = 64
	docLocks    = 64
)

// tokenShard holds the posting lists for a slice of the token space.
// Posting slices are immutable once stored; updates replace the whole slice
// so a reader holding a slice never observes a partial update.
type tokenShard struct {
	mu       sync.RWMutex
	postings map[string][]Posting
}

// MemoryIndex is an in-memory inverted index with tf-idf scoring.
//
// The token space is sharded; writers for different documents proceed
// concurrently unless they contend on a shard or on the same document id.
// Readers are never blocked beyond the brief shard read lock.
type MemoryIndex struct {
	shards [tokenShards]*tokenShard

	// docMu guards docTF, the per-document term-frequency table used to diff
	// upserts and to answer DocCount.
	docMu sync.RWMutex
	docTF map[string]map[string]int

	// writeLocks serialize writers per document id (striped by hash).
	writeLocks [docLocks]sync.Mutex
}

// NewMemoryIndex creates an empty in-memory inverted index.
func NewMemoryIndex() *MemoryIndex {
	m := &MemoryIndex{
		docTF: make(map[string]map[string]int),
	}
	for i := range m.shards {
		m.shards[i] = &tokenShard{postings: make(map[string][]Posting)}
	}
	return m
}

func shardFor(token string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return h.Sum32() % tokenShards
}

func (m *MemoryIndex) docLock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &m.writeLocks[h.Sum32()%docLocks]
}

// Upsert replaces the postings for id with the term frequencies of tokens.
func (m *MemoryIndex) Upsert(ctx context.Context, id string, tokens []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}

	lock := m.docLock(id)
	lock.Lock()
	defer lock.Unlock()

	m.docMu.RLock()
	prev := m.docTF[id]
	m.docMu.RUnlock()

	// Drop postings for tokens the document no longer contains.
	for token := range prev {
		if _, still := tf[token]; !still {
			m.removePosting(token, id)
		}
	}
	// Insert or replace postings for current tokens whose count changed.
	for token, count := range tf {
		if prev[token] == count {
			continue
		}
		m.setPosting(token, id, count)
	}

	m.docMu.Lock()
	m.docTF[id] = tf
	m.docMu.Unlock()
	return nil
}

// Remove deletes id from every posting list it appears in.
func (m *MemoryIndex) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	lock := m.docLock(id)
	lock.Lock()
	defer lock.Unlock()

	m.docMu.RLock()
	prev, ok := m.docTF[id]
	m.docMu.RUnlock()
	if !ok {
		return false, nil
	}
	for token := range prev {
		m.removePosting(token, id)
	}
	m.docMu.Lock()
	delete(m.docTF, id)
	m.docMu.Unlock()
	return true, nil
}

// setPosting inserts or replaces the posting for id in token's list,
// preserving ascending id order, via copy-on-write.
func (m *MemoryIndex) setPosting(token, id string, count int) {
	s := m.shards[shardFor(token)]
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.postings[token]
	i := sort.Search(len(old), func(i int) bool { return old[i].ID >= id })
	var updated []Posting
	if i < len(old) && old[i].ID == id {
		updated = make([]Posting, len(old))
		copy(updated, old)
		updated[i].TF = count
	} else {
		updated = make([]Posting, 0, len(old)+1)
		updated = append(updated, old[:i]...)
		updated = append(updated, Posting{ID: id, TF: count})
		updated = append(updated, old[i:]...)
	}
	s.postings[token] = updated
}

// removePosting deletes id from token's list; empty lists are removed so the
// index never holds dangling tokens.
func (m *MemoryIndex) removePosting(token, id string) {
	s := m.shards[shardFor(token)]
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.postings[token]
	i := sort.Search(len(old), func(i int) bool { return old[i].ID >= id })
	if i >= len(old) || old[i].ID != id {
		return
	}
	if len(old) == 1 {
		delete(s.postings, token)
		return
	}
	updated := make([]Posting, 0, len(old)-1)
	updated = append(updated, old[:i]...)
	updated = append(updated, old[i+1:]...)
	s.postings[token] = updated
}

// Query scores candidates with tf * log(totalDocs / (1 + docFrequency)),
// accumulated per query token. Documents matching more distinct query tokens
// score higher by construction.
func (m *MemoryIndex) Query(ctx context.Context, tokens []string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := make(map[string]float64)

	m.docMu.RLock()
	total := len(m.docTF)
	m.docMu.RUnlock()
	if total == 0 {
		return scores, nil
	}

	for _, token := range tokens {
		s := m.shards[shardFor(token)]
		s.mu.RLock()
		list := s.postings[token]
		s.mu.RUnlock()
		if len(list) == 0 {
			continue
		}
		idf := math.Log(float64(total) / float64(1+len(list)))
		for _, p := range list {
			scores[p.ID] += float64(p.TF) * idf
		}
	}
	return scores, nil
}

// DocCount returns the number of indexed documents.
func (m *MemoryIndex) DocCount() int {
	m.docMu.RLock()
	defer m.docMu.RUnlock()
	return len(m.docTF)
}

// TermCount returns the number of distinct tokens with postings.
func (m *MemoryIndex) TermCount() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.postings)
		s.mu.RUnlock()
	}
	return n
}

// Postings returns a copy of token's posting list, for inspection and tests.
func (m *MemoryIndex) Postings(token string) []Posting {
	s := m.shards[shardFor(token)]
	s.mu.RLock()
	list := s.postings[token]
	s.mu.RUnlock()
	out := make([]Posting, len(list))
	copy(out, list)
	return out
}

// Dump returns a copy of the per-document term-frequency table, used for
// snapshotting.
func (m *MemoryIndex) Dump() map[string]map[string]int {
	m.docMu.RLock()
	defer m.docMu.RUnlock()
	out := make(map[string]map[string]int, len(m.docTF))
	for id, tf := range m.docTF {
		cp := make(map[string]int, len(tf))
		for t, c := range tf {
			cp[t] = c
		}
		out[id] = cp
	}
	return out
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
