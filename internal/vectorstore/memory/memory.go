// Package memory is a brute-force in-memory vector store. It ranks
// rows with the same max-sim scoring and tie-break rules as the
// postgres store, which makes it a drop-in stand-in for tests and for
// running without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"pdf-chat/internal/models"
	"pdf-chat/internal/similarity"
)

type row struct {
	id         int64
	content    string
	embeddings [][]float32
}

type Store struct {
	mu     sync.RWMutex
	rows   []row
	nextID int64
}

func NewStore() *Store { return &Store{nextID: 1} }

func (s *Store) Init(ctx context.Context) error { return nil }

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.nextID = 1
	return nil
}

func (s *Store) Insert(ctx context.Context, content string, embeddings [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row{id: s.nextID, content: content, embeddings: embeddings})
	s.nextID++
	return nil
}

func (s *Store) Search(ctx context.Context, query [][]float32, limit int) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	type scored struct {
		row   row
		score float64
	}
	candidates := make([]scored, 0, len(s.rows))
	for _, r := range s.rows {
		candidates = append(candidates, scored{row: r, score: similarity.MaxSim(r.embeddings, query)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].row.id < candidates[j].row.id
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	results := make([]models.SearchResult, 0, limit)
	for _, c := range candidates[:limit] {
		results = append(results, models.SearchResult{Content: c.row.content, Score: c.score})
	}
	return results, nil
}

func (s *Store) Close() error { return nil }

// Len reports the number of stored rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
