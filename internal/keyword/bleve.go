package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// maxBleveCandidates caps how many hits a single Query requests from Bleve.
const maxBleveCandidates = 1000

// BleveIndex implements Index on a persistent Bleve index. Documents are
// indexed as their joined token stream; scoring is Bleve's own ranking rather
// than the memory backend's tf-idf, which is acceptable because hybrid fusion
// min-max normalizes keyword scores before blending.
type BleveIndex struct {
	index bleve.Index
}

type bleveDoc struct {
	Tokens string `json:"tokens"`
}

// NewBleveIndex creates or opens a Bleve index at path.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("bleve index path must not be empty")
	}
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	tokenField := bleve.NewTextFieldMapping()
	// Tokens arrive pre-normalized; the standard analyzer only lowercases and
	// splits, so it cannot undo the normalizer's policy.
	tokenField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("tokens", tokenField)
	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Upsert indexes the token stream under id, replacing any previous entry.
func (b *BleveIndex) Upsert(ctx context.Context, id string, tokens []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.index.Index(id, bleveDoc{Tokens: strings.Join(tokens, " ")})
}

// Remove deletes id from the index.
func (b *BleveIndex) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := b.index.Document(id)
	if err != nil || doc == nil {
		return false, nil
	}
	if err := b.index.Delete(id); err != nil {
		return false, fmt.Errorf("bleve delete: %w", err)
	}
	return true, nil
}

// Query runs a match query over the token stream and returns hit scores.
func (b *BleveIndex) Query(ctx context.Context, tokens []string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := make(map[string]float64)
	if len(tokens) == 0 {
		return scores, nil
	}
	q := bleve.NewMatchQuery(strings.Join(tokens, " "))
	q.SetField("tokens")
	req := bleve.NewSearchRequest(q)
	req.Size = maxBleveCandidates
	res, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}
	for _, hit := range res.Hits {
		scores[hit.ID] = hit.Score
	}
	return scores, nil
}

// DocCount returns the number of indexed documents.
func (b *BleveIndex) DocCount() int {
	n, err := b.index.DocCount()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close closes the underlying Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
