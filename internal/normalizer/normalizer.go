// Package normalizer provides deterministic text tokenization shared by the
// indexing and query paths. The same policy must be applied to both sides so
// that postings and query tokens line up.
package normalizer

import (
	"strings"
	"unicode"
)

// DefaultMinTokenLength is the minimum token length kept when none is configured.
const DefaultMinTokenLength = 2

// Normalizer tokenizes text with a fixed casing, stop-word, and length policy.
// A Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopWords      map[string]struct{}
	minTokenLength int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopWords sets the stop-word list. Words are matched after lowercasing.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) {
		for _, w := range words {
			n.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithMinTokenLength sets the minimum token length in runes. Values < 1 keep the default.
func WithMinTokenLength(min int) Option {
	return func(n *Normalizer) {
		if min >= 1 {
			n.minTokenLength = min
		}
	}
}

// New creates a Normalizer with the given options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopWords:      make(map[string]struct{}),
		minTokenLength: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the ordered token sequence for text: lowercased, split on
// non-alphanumeric boundaries, stop words and short tokens dropped.
// Empty or all-filtered input yields nil, not an error.
func (n *Normalizer) Normalize(text string) []string {
	if text == "" {
		return nil
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) < n.minTokenLength {
			continue
		}
		if _, stop := n.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TermFrequencies returns the per-token counts for an ordered token sequence.
func TermFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
