package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/config"
	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/keyword"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/normalizer"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/vector"
)

// ErrTimeout is returned when a search does not complete within the configured deadline.
var ErrTimeout = errors.New("search timed out")

// Engine runs hybrid (keyword + vector) search over the document indexes.
type Engine struct {
	storage      storage.Storage
	normalizer   *normalizer.Normalizer
	embedder     embedding.Embedder
	keywordIndex keyword.Index
	vectorIndex  vector.Index
	config       *config.SearchConfig
	logger       *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	storage storage.Storage,
	norm *normalizer.Normalizer,
	embedder embedding.Embedder,
	keywordIndex keyword.Index,
	vectorIndex vector.Index,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		storage:      storage,
		normalizer:   norm,
		embedder:     embedder,
		keywordIndex: keywordIndex,
		vectorIndex:  vectorIndex,
		config:       cfg,
		logger:       logger,
	}
}

// Search runs hybrid search and returns ranked document results.
//
// When the embedding provider is unavailable and keyword search is enabled,
// the engine degrades to keyword-only ranking and marks the response. A
// deadline hit anywhere in the pipeline surfaces as ErrTimeout.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if query.Limit == 0 && e.config.DefaultLimit > 0 {
		query.Limit = e.config.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	tokens := e.normalizer.Normalize(query.Query)
	alpha := e.config.BlendAlpha()
	if query.Alpha != nil {
		alpha = *query.Alpha
	}

	var (
		keywordScores map[string]float64
		vectorScores  map[string]float64
		keywordErr    error
		vectorErr     error
		wg            sync.WaitGroup
	)

	if query.KeywordEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scores, err := e.keywordIndex.Query(ctx, tokens)
			if err != nil {
				keywordErr = fmt.Errorf("keyword search failed: %w", err)
				return
			}
			keywordScores = scores
		}()
	}

	if query.VectorEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryVec, err := e.embedder.Embed(ctx, query.Query)
			if err != nil {
				vectorErr = err
				return
			}
			k := query.Limit
			if e.config.Overfetch > k {
				k = e.config.Overfetch
			}
			neighbors, err := e.vectorIndex.Search(ctx, queryVec, k)
			if err != nil {
				vectorErr = fmt.Errorf("vector search failed: %w", err)
				return
			}
			vectorScores = make(map[string]float64, len(neighbors))
			for _, n := range neighbors {
				vectorScores[n.ID] = 1.0 / (1.0 + n.Distance)
			}
		}()
	}

	wg.Wait()

	keywordOnly := false
	if vectorErr != nil {
		if errors.Is(vectorErr, embedding.ErrUnavailable) && query.KeywordEnabled && keywordErr == nil {
			e.logger.Warn("embedding provider unavailable, degrading to keyword-only search",
				zap.Error(vectorErr))
			keywordOnly = true
			alpha = 1.0
		} else {
			return nil, e.mapError(ctx, vectorErr)
		}
	}
	if keywordErr != nil {
		return nil, e.mapError(ctx, keywordErr)
	}

	candidates := Blend(MinMaxNormalize(keywordScores), MinMaxNormalize(vectorScores), alpha)
	if len(candidates) > query.Limit {
		candidates = candidates[:query.Limit]
	}

	response := &models.SearchResponse{
		Results:     make([]*models.SearchResult, 0, len(candidates)),
		Total:       len(candidates),
		KeywordOnly: keywordOnly,
		QueryTime:   time.Since(startTime).Milliseconds(),
		Query:       query.Query,
	}
	for i, c := range candidates {
		result := &models.SearchResult{
			DocumentID:   c.DocumentID,
			Score:        c.Score,
			KeywordScore: c.KeywordScore,
			VectorScore:  c.VectorScore,
			Rank:         i + 1,
		}
		if doc, err := e.storage.GetDocument(ctx, c.DocumentID); err == nil {
			result.Document = doc
		}
		response.Results = append(response.Results, result)
	}
	return response, nil
}

// VectorIndexSize returns the number of vectors currently indexed.
func (e *Engine) VectorIndexSize() int {
	return e.vectorIndex.Size()
}

// KeywordDocCount returns the number of documents in the keyword index.
func (e *Engine) KeywordDocCount() int {
	return e.keywordIndex.DocCount()
}

// mapError translates context deadline errors into ErrTimeout.
func (e *Engine) mapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
