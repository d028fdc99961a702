// Package embedding provides pluggable text embedding providers.
//
// All providers satisfy the same contract: deterministic output for identical
// text under a fixed configuration, and a fixed vector dimension. Providers
// backed by an external resource report transient failures with
// ErrUnavailable; callers may retry or degrade to keyword-only search.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable indicates the embedding backend cannot be reached.
// It is retryable and never fatal to the index.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder produces fixed-length vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Close() error
}

// Provider names accepted by New.
const (
	ProviderHash   = "hash"
	ProviderONNX   = "onnx"
	ProviderRemote = "remote"
)

// Options selects and configures a provider.
type Options struct {
	Provider   string
	Dimensions int
	// ModelPath and MaxTokens configure the onnx provider.
	ModelPath string
	MaxTokens int
	// Endpoint configures the remote provider.
	Endpoint string
	// CacheSize > 0 wraps the provider in an LRU cache.
	CacheSize int
}

// New creates the configured embedding provider. Unknown or empty provider
// names select the hash placeholder. A CacheSize > 0 wraps the result in an
// LRU cache keyed by text.
func New(opts Options) (Embedder, error) {
	var (
		e   Embedder
		err error
	)
	switch opts.Provider {
	case ProviderHash, "":
		e, err = NewHashEmbedder(opts.Dimensions)
	case ProviderONNX:
		e, err = NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens)
	case ProviderRemote:
		e, err = NewRemoteEmbedder(opts.Endpoint, opts.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: hash, onnx, remote)", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	if opts.CacheSize > 0 {
		e = NewCachedEmbedder(e, opts.CacheSize)
	}
	return e, nil
}
