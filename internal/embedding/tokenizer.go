package embedding

import (
	"hash/fnv"
	"strings"
)

// BERT special token ids and the hash bucket count for word ids.
const (
	clsTokenID  = 101
	sepTokenID  = 102
	vocabBucket = 30000
)

// Tokenizer produces the input tensors BERT-style models expect.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer splits on whitespace and maps words to ids by hashing.
// A production deployment would load the model's vocabulary file; this keeps
// the onnx path self-contained for models exported with hash bucketing.
type SimpleTokenizer struct{}

// Tokenize returns fixed-length tensors of maxTokens, padded with zeros.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(text) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = wordID(word)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

func wordID(word string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return int64(h.Sum32() % vocabBucket)
}
