package embeddings

import (
	"math"
	"sort"
)

// Candidate pairs a stored vector with the ID of the document it was
// computed from.
type Candidate struct {
	ID     string
	Vector []float32
}

// Match is a candidate that scored at or above the caller's threshold.
type Match struct {
	ID    string
	Score float64
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero-norm vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindSimilar scores every candidate against query and returns up to
// limit matches at or above threshold, best first.
func FindSimilar(query []float32, candidates []Candidate, threshold float64, limit int) []Match {
	if limit <= 0 {
		limit = 10
	}
	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		score := CosineSimilarity(query, cand.Vector)
		if score >= threshold {
			matches = append(matches, Match{ID: cand.ID, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
