// Package search provides hybrid search (keyword + vector) and score fusion.
package search

import "sort"

// Candidate holds a document ID with its per-signal and blended scores.
type Candidate struct {
	DocumentID   string
	Score        float64
	KeywordScore float64
	VectorScore  float64
}

// MinMaxNormalize rescales scores to [0,1]. When all scores are equal,
// every candidate gets 1.0 so a degenerate signal does not zero out the blend.
func MinMaxNormalize(scores map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	first := true
	var minScore, maxScore float64
	for _, s := range scores {
		if first {
			minScore, maxScore = s, s
			first = false
			continue
		}
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	spread := maxScore - minScore
	for id, s := range scores {
		if spread == 0 {
			normalized[id] = 1.0
		} else {
			normalized[id] = (s - minScore) / spread
		}
	}
	return normalized
}

// Blend merges normalized keyword and vector score maps into a single ranked
// list. A document missing from one signal contributes 0 for that signal.
// Results are ordered by blended score descending, ties broken by document ID
// ascending.
func Blend(keywordScores, vectorScores map[string]float64, alpha float64) []*Candidate {
	merged := make(map[string]*Candidate, len(keywordScores)+len(vectorScores))
	for id, score := range keywordScores {
		merged[id] = &Candidate{
			DocumentID:   id,
			KeywordScore: score,
		}
	}
	for id, score := range vectorScores {
		if c, exists := merged[id]; exists {
			c.VectorScore = score
		} else {
			merged[id] = &Candidate{
				DocumentID:  id,
				VectorScore: score,
			}
		}
	}

	candidates := make([]*Candidate, 0, len(merged))
	for _, c := range merged {
		c.Score = alpha*c.KeywordScore + (1-alpha)*c.VectorScore
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].DocumentID < candidates[j].DocumentID
	})
	return candidates
}
