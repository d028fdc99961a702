// Package e2e runs the full pipeline against a synthetic corpus large
// enough to make ranking assertions meaningful.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/tansaku/internal/models"
)

// E2EDocument is one corpus entry.
type E2EDocument struct {
	ID      string
	Title   string
	Content string
}

// QueryTestCase pairs a query with the document ids that must appear in
// the blended search results. At least one of ExpectedDocIDs must show up.
type QueryTestCase struct {
	Query          string
	ExpectedDocIDs []string
	Description    string
}

// Corpus holds the generated documents and their query test cases.
type Corpus struct {
	Documents    []E2EDocument
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

// topic carries a title and a signature phrase. The phrase appears in
// exactly one document's content, so a query for it can assert which
// document should rank.
type topic struct {
	title  string
	phrase string
}

var corpusTopics = []topic{
	{"Goroutine Scheduling", "goroutine scheduler preemption"},
	{"Channel Patterns", "channel fan-out pipeline"},
	{"SQLite Internals", "sqlite btree page cache"},
	{"Write-Ahead Logging", "write-ahead log durability"},
	{"Inverted Indexes", "inverted index posting lists"},
	{"TF-IDF Scoring", "term frequency inverse document"},
	{"Vector Embeddings", "dense vector embeddings similarity"},
	{"Cosine Distance", "cosine distance angle vectors"},
	{"HNSW Graphs", "hierarchical navigable small world"},
	{"Brute-Force Search", "exhaustive nearest neighbor scan"},
	{"Hybrid Ranking", "blended keyword vector ranking"},
	{"Score Normalization", "min-max score normalization"},
	{"Text Tokenization", "unicode tokenization case folding"},
	{"Stop Words", "stop word filtering lists"},
	{"Stemming Algorithms", "porter stemmer suffix stripping"},
	{"Snapshot Persistence", "binary snapshot magic header"},
	{"Zstandard Compression", "zstd compression dictionary frames"},
	{"Atomic File Writes", "temp file rename atomicity"},
	{"Directory Watching", "filesystem notification debounce events"},
	{"Graceful Shutdown", "sigterm drain graceful shutdown"},
	{"HTTP Middleware", "http middleware request timeout"},
	{"JSON APIs", "json request response envelopes"},
	{"Structured Logging", "structured logging fields zap"},
	{"Error Wrapping", "error wrapping sentinel unwrap"},
	{"Context Cancellation", "context cancellation deadline propagation"},
	{"Connection Pooling", "database connection pool reuse"},
	{"Memory Mapped Files", "memory mapped file access"},
	{"Bloom Filters", "bloom filter false positives"},
	{"LRU Caching", "least recently used eviction"},
	{"Consistent Hashing", "consistent hashing ring partitions"},
	{"Raft Consensus", "raft leader election log"},
	{"Gossip Protocols", "gossip protocol membership dissemination"},
	{"Load Shedding", "load shedding backpressure limits"},
	{"Rate Limiters", "token bucket rate limiter"},
	{"Circuit Breakers", "circuit breaker half open"},
	{"Retry Backoff", "exponential backoff jitter retries"},
	{"Blue Green Deploys", "blue green traffic switch"},
	{"Canary Rollouts", "canary rollout gradual exposure"},
	{"Feature Flags", "feature flag targeting rules"},
	{"Config Reloading", "hot config reload sighup"},
	{"Secrets Handling", "secret rotation environment injection"},
	{"TLS Termination", "tls termination certificate chain"},
	{"OAuth Flows", "oauth authorization code flow"},
	{"Session Tokens", "signed session token expiry"},
	{"Content Hashing", "sha256 content addressable identifiers"},
	{"Merkle Trees", "merkle tree integrity proofs"},
	{"Delta Encoding", "delta encoding varint compression"},
	{"Columnar Storage", "columnar storage vectorized reads"},
	{"Time Series Data", "time series downsampling retention"},
	{"Geospatial Queries", "geospatial bounding box queries"},
}

// BuildCorpus generates 100 documents and one query test case per topic.
func BuildCorpus() *Corpus {
	docs := generateDocuments(100)
	cases := generateTestCases(docs)
	return &Corpus{
		Documents:    docs,
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func generateDocuments(n int) []E2EDocument {
	out := make([]E2EDocument, 0, n)
	for i := 0; i < n; i++ {
		tp := corpusTopics[i%len(corpusTopics)]
		title := tp.title
		if i >= len(corpusTopics) {
			title = fmt.Sprintf("%s, Part %d", tp.title, i/len(corpusTopics)+1)
		}
		out = append(out, E2EDocument{
			ID:      fmt.Sprintf("e2e-doc-%03d", i+1),
			Title:   title,
			Content: documentBody(tp, i),
		})
	}
	return out
}

// documentBody embeds the signature phrase only in the first document of a
// topic; repeats get paraphrased filler so phrase queries stay unambiguous.
func documentBody(tp topic, i int) string {
	if i < len(corpusTopics) {
		return fmt.Sprintf("%s explained. The notes on %s cover the practical tradeoffs engineers run into, with worked examples and failure modes.", tp.title, tp.phrase)
	}
	return fmt.Sprintf("Follow-up material for %s. This continuation revisits the topic with additional diagrams and exercises.", tp.title)
}

func generateTestCases(docs []E2EDocument) []QueryTestCase {
	var cases []QueryTestCase
	for i, tp := range corpusTopics {
		if i >= len(docs) {
			break
		}
		doc := docs[i]
		if !strings.Contains(doc.Content, tp.phrase) {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          tp.phrase,
			ExpectedDocIDs: []string{doc.ID},
			Description:    fmt.Sprintf("query %q finds %s", tp.phrase, doc.ID),
		})
	}
	return cases
}

// ToDocumentInputs converts the corpus for the indexer.
func (c *Corpus) ToDocumentInputs() []*models.DocumentInput {
	out := make([]*models.DocumentInput, len(c.Documents))
	for i := range c.Documents {
		d := &c.Documents[i]
		out[i] = &models.DocumentInput{ID: d.ID, Title: d.Title, Content: d.Content}
	}
	return out
}
