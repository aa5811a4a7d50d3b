// Package similarity implements the late-interaction scoring used to
// rank stored documents: for each query vector take the best cosine
// match among the document's vectors, then sum those maxima.
package similarity

import "math"

// Cosine returns the cosine similarity of a and b. Mismatched lengths
// are compared over the shorter prefix; a zero vector scores 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MaxSim scores document vectors against query vectors:
//
//	score(D, Q) = sum_i max_j cosine(q_i, d_j)
//
// The score is bounded by len(query). Empty inputs score 0.
func MaxSim(doc, query [][]float32) float64 {
	if len(doc) == 0 || len(query) == 0 {
		return 0
	}
	var score float64
	for _, q := range query {
		best := math.Inf(-1)
		for _, d := range doc {
			if sim := Cosine(q, d); sim > best {
				best = sim
			}
		}
		score += best
	}
	return score
}
