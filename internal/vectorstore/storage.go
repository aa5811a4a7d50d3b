// Package vectorstore defines the storage contract for chunk
// embeddings: one row per chunk holding its content and an ordered
// list of fixed-dimension vectors, ranked at query time by the
// max-sim aggregate.
package vectorstore

import (
	"context"

	"pdf-chat/internal/models"
)

// Store persists multi-vector embeddings and ranks them by max-sim.
type Store interface {
	// Init performs an idempotent migration (extension, scoring
	// function, table). It never discards data.
	Init(ctx context.Context) error
	// Reset drops and recreates the documents table. Opt-in and
	// destructive.
	Reset(ctx context.Context) error
	// Insert appends one row. The chunk's full vector list is written
	// in a single statement.
	Insert(ctx context.Context, content string, embeddings [][]float32) error
	// Search returns up to limit rows ordered by descending max-sim
	// score, ties broken by ascending row id.
	Search(ctx context.Context, query [][]float32, limit int) ([]models.SearchResult, error)
	Close() error
}
