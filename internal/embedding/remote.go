package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hyperjump/tansaku/pkg/utils"
)

// RemoteEmbedder calls an HTTP embedding service. The service receives
// {"text": "..."} and responds {"embedding": [...]}. Connection errors and
// server failures surface as ErrUnavailable so callers can degrade to
// keyword-only search instead of failing the request.
type RemoteEmbedder struct {
	endpoint   string
	dimensions int
	client     *http.Client
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewRemoteEmbedder creates a remote embedder for the given endpoint.
func NewRemoteEmbedder(endpoint string, dimensions int) (*RemoteEmbedder, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("remote embedder endpoint must not be empty")
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	return &RemoteEmbedder{
		endpoint:   endpoint,
		dimensions: dimensions,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Embed requests an embedding from the service. The returned vector is
// L2-normalized. Transport failures and non-2xx responses wrap ErrUnavailable.
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: service returned %d", ErrUnavailable, resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(out.Embedding) != e.dimensions {
		return nil, fmt.Errorf("service returned %d dimensions, expected %d", len(out.Embedding), e.dimensions)
	}
	utils.NormalizeL2(out.Embedding)
	return out.Embedding, nil
}

// Dimensions returns the embedding dimension.
func (e *RemoteEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for RemoteEmbedder.
func (e *RemoteEmbedder) Close() error {
	return nil
}
