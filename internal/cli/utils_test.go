package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/tansaku/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Results: []*models.SearchResult{
			{
				DocumentID:   "doc1",
				Score:        0.9,
				KeywordScore: 1.0,
				VectorScore:  0.8,
				Rank:         1,
				Document: &models.Document{
					ID:      "doc1",
					Title:   "First",
					Content: "some content here",
				},
			},
		},
		Total:     1,
		QueryTime: 3,
		Query:     "content",
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 results", "Rank: 1", "ID: doc1", "Title: First"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResultsTextKeywordOnly(t *testing.T) {
	resp := sampleResponse()
	resp.KeywordOnly = true

	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "keyword scores only") {
		t.Error("expected keyword-only notice in output")
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults failed: %v", err)
	}

	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || len(decoded.Results) != 1 {
		t.Errorf("unexpected decoded response: %+v", decoded)
	}
	if decoded.Results[0].DocumentID != "doc1" {
		t.Errorf("unexpected document ID: %s", decoded.Results[0].DocumentID)
	}
}
