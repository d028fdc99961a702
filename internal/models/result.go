package models

// SearchResult represents a single search hit with its blended score and
// the per-signal components that produced it.
type SearchResult struct {
	Document     *Document `json:"document,omitempty"`
	DocumentID   string    `json:"document_id"`
	Score        float64   `json:"score"`
	KeywordScore float64   `json:"keyword_score"`
	VectorScore  float64   `json:"vector_score"`
	Rank         int       `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	Total   int             `json:"total"`
	// KeywordOnly is set when the embedding backend was unavailable and the
	// results were ranked from the keyword signal alone.
	KeywordOnly bool   `json:"keyword_only,omitempty"`
	QueryTime   int64  `json:"query_time_ms"`
	Query       string `json:"query"`
}
