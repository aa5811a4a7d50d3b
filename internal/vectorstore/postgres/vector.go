package postgres

import (
	"strconv"
	"strings"
)

// formatVector renders one vector in pgvector text format: [v1,v2,...].
func formatVector(vector []float32) string {
	var b strings.Builder
	b.WriteString("[")
	for i, v := range vector {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteString("]")
	return b.String()
}

// formatVectorArray renders the elements of a vector[] column, one
// pgvector literal per element. The caller wraps them with pq.Array.
func formatVectorArray(vectors [][]float32) []string {
	out := make([]string, len(vectors))
	for i, v := range vectors {
		out[i] = formatVector(v)
	}
	return out
}
