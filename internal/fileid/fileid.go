// Package fileid derives stable document ids from file paths so that file
// updates and deletions map back to the same indexed document.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const idPrefix = "file:"

// FileDocID returns the document id for a file path. The path is cleaned
// first, so lexical variants of the same location produce the same id.
// Callers should pass absolute paths.
func FileDocID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return idPrefix + hex.EncodeToString(sum[:])
}
