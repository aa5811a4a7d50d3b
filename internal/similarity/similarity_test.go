package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMaxSimIdenticalSets(t *testing.T) {
	vecs := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	// each query vector finds itself, so the score is exactly |Q|
	assert.InDelta(t, 3.0, MaxSim(vecs, vecs), 1e-9)
}

func TestMaxSimBoundedByQueryCount(t *testing.T) {
	doc := [][]float32{{0.3, 0.7}, {0.9, 0.1}, {0.5, 0.5}}
	query := [][]float32{{1, 0}, {0, 1}}
	score := MaxSim(doc, query)
	assert.LessOrEqual(t, score, float64(len(query)))
	assert.Greater(t, score, 0.0)
}

func TestMaxSimAsymmetric(t *testing.T) {
	d := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	q := [][]float32{{1, 0}}
	// one query vector against three doc vectors vs three against one
	assert.NotEqual(t, MaxSim(d, q), MaxSim(q, d))
}

func TestMaxSimEmpty(t *testing.T) {
	vecs := [][]float32{{1, 0}}
	assert.Zero(t, MaxSim(nil, vecs))
	assert.Zero(t, MaxSim(vecs, nil))
	assert.Zero(t, MaxSim(nil, nil))
}
