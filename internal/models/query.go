package models

import (
	"fmt"
	"strings"
)

// SearchQuery represents a hybrid search request.
type SearchQuery struct {
	Query string `json:"query"`
	// Limit is the maximum number of results to return (k). Defaults to 10, capped at MaxLimit.
	Limit int `json:"limit,omitempty"`
	// Alpha overrides the configured keyword/vector blend weight when non-nil.
	// 1.0 means keyword-only scoring, 0.0 vector-only.
	Alpha *float64 `json:"alpha,omitempty"`
	// KeywordEnabled and VectorEnabled select which candidate sources run.
	// When both are false, both are enabled.
	KeywordEnabled bool `json:"keyword_enabled,omitempty"`
	VectorEnabled  bool `json:"vector_enabled,omitempty"`
}

// MaxLimit caps the number of results a single query may request.
const MaxLimit = 100

// Validate checks the query and fills defaults.
// An empty query string or an explicitly negative limit is a caller error.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must be >= 1, got %d", q.Limit)
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Alpha != nil && (*q.Alpha < 0 || *q.Alpha > 1) {
		return fmt.Errorf("alpha must be in [0,1], got %g", *q.Alpha)
	}
	if !q.KeywordEnabled && !q.VectorEnabled {
		q.KeywordEnabled = true
		q.VectorEnabled = true
	}
	return nil
}
