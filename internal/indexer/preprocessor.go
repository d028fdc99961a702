package indexer

import "strings"

// Preprocess canonicalizes document text before storage: leading and
// trailing whitespace is dropped and interior runs collapse to single
// spaces, so the same content always stores identically.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
