// Package indexer provides document indexing into storage, keyword, and vector indexes.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/fileid"
	"github.com/hyperjump/tansaku/internal/keyword"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/normalizer"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/vector"
)

// PartialError reports that a document was indexed for keyword search but
// could not be indexed for vector search. The document remains searchable
// by keywords.
type PartialError struct {
	DocumentID string
	Err        error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("document %s partially indexed (keyword only): %v", e.DocumentID, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Indexer indexes documents into storage, keyword index, and vector index.
type Indexer struct {
	storage      storage.Storage
	normalizer   *normalizer.Normalizer
	embedder     embedding.Embedder
	keywordIndex keyword.Index
	vectorIndex  vector.Index
	logger       *zap.Logger // optional; when set, logs debug events
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a logger for debug output (file indexed, document removed, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	storage storage.Storage,
	norm *normalizer.Normalizer,
	embedder embedding.Embedder,
	keywordIndex keyword.Index,
	vectorIndex vector.Index,
	opts ...Option,
) *Indexer {
	idx := &Indexer{
		storage:      storage,
		normalizer:   norm,
		embedder:     embedder,
		keywordIndex: keywordIndex,
		vectorIndex:  vectorIndex,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexDocument indexes a document: store, normalize, update keyword index,
// embed, update vector index. Indexing an existing ID replaces its previous
// state in both indexes. The embedding is computed before the vector index is
// touched so index locks are never held during provider calls.
//
// When the embedding provider fails, the document stays keyword-searchable
// and a *PartialError is returned.
func (idx *Indexer) IndexDocument(ctx context.Context, input *models.DocumentInput) error {
	if input.ID == "" {
		input.ID = uuid.New().String()
	}
	doc := &models.Document{
		ID:       input.ID,
		Title:    input.Title,
		Content:  Preprocess(input.Content),
		Metadata: input.Metadata,
	}
	if err := idx.storage.UpsertDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	tokens := idx.normalizer.Normalize(strings.TrimSpace(doc.Title + " " + doc.Content))
	if err := idx.keywordIndex.Upsert(ctx, doc.ID, tokens); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}

	emb, err := idx.embedder.Embed(ctx, doc.Content)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &PartialError{DocumentID: doc.ID, Err: err}
	}
	if err := idx.vectorIndex.Upsert(ctx, doc.ID, emb); err != nil {
		return &PartialError{DocumentID: doc.ID, Err: err}
	}

	if idx.logger != nil {
		idx.logger.Debug("indexer document indexed", zap.String("id", doc.ID))
	}
	return nil
}

// RemoveDocument removes a document from both indexes and storage. Removal is
// best-effort: a failure on one side does not prevent removal from the other.
// The result reports which indexes actually held the document.
func (idx *Indexer) RemoveDocument(ctx context.Context, id string) (*models.RemoveResult, error) {
	result := &models.RemoveResult{}
	var errs []error

	kwRemoved, err := idx.keywordIndex.Remove(ctx, id)
	if err != nil {
		errs = append(errs, fmt.Errorf("keyword index: %w", err))
	}
	result.KeywordRemoved = kwRemoved

	vecRemoved, err := idx.vectorIndex.Remove(ctx, id)
	if err != nil {
		errs = append(errs, fmt.Errorf("vector index: %w", err))
	}
	result.VectorRemoved = vecRemoved

	if _, err := idx.storage.DeleteDocument(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}

	if idx.logger != nil {
		idx.logger.Debug("indexer document removed",
			zap.String("id", id),
			zap.Bool("keyword", result.KeywordRemoved),
			zap.Bool("vector", result.VectorRemoved))
	}
	return result, errors.Join(errs...)
}

const (
	metaKeySourcePath  = "source_path"
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IndexFile reads a plain-text file from path and indexes it. The document ID
// is derived from the absolute path so re-indexing updates the same document.
// If allowedExts is non-empty, the file's extension must be in the list
// (case-insensitive). Skips indexing if the file is already indexed with the
// same mtime and size.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}

	docID := fileid.FileDocID(absPath)
	if idx.fileUnchanged(ctx, absPath, docID, info) {
		if idx.logger != nil {
			idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		}
		return nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	input := &models.DocumentInput{
		ID:      docID,
		Title:   filepath.Base(absPath),
		Content: string(content),
		Metadata: map[string]interface{}{
			metaKeySourcePath:  absPath,
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	}
	if err := idx.IndexDocument(ctx, input); err != nil {
		return err
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer file indexed", zap.String("path", absPath), zap.String("doc_id", docID))
	}
	return nil
}

// fileUnchanged reports whether the file is already indexed with the same mtime and size.
func (idx *Indexer) fileUnchanged(ctx context.Context, absPath, docID string, info os.FileInfo) bool {
	doc, err := idx.storage.GetDocument(ctx, docID)
	if err != nil || doc.Metadata == nil {
		return false
	}
	if doc.Metadata[metaKeySourcePath] != absPath {
		return false
	}
	// Values are stored as strings to avoid JSON float64 precision loss (UnixNano exceeds 53 bits).
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IndexDirectory walks dir recursively and indexes each regular file whose
// extension is in allowedExts (if non-empty; otherwise all files). Returns the
// number of files indexed and the first error encountered, if any.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so we only index regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil {
			return nil
		}
		if !finfo.Mode().IsRegular() {
			return nil
		}
		if indexErr := idx.IndexFile(ctx, path, allowedExts); indexErr != nil {
			return indexErr
		}
		n++
		return nil
	})
	return n, err
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
