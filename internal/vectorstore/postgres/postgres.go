// Package postgres stores chunk embeddings in Postgres with the
// pgvector extension. Each row keeps the chunk text plus an ordered
// vector(dim)[] column; ranking happens in the database through the
// max_sim SQL function.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdf-chat/internal/config"
	"pdf-chat/internal/models"
)

const (
	connectAttempts = 5
	connectDelay    = 5 * time.Second
)

type Store struct {
	db         *bun.DB
	vectorSize int
}

// ConnectDB opens a connection to Postgres, retrying a bounded number
// of times with a fixed delay. The process cannot run without the
// store, so exhausting the attempts is an error for the caller to
// treat as fatal.
func ConnectDB(cfg *config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Host, cfg.Port, cfg.DBName)
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password)))

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = sqldb.Ping(); err == nil {
			return sqldb, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", connectAttempts).Msg("Database not reachable")
		if attempt < connectAttempts {
			time.Sleep(connectDelay)
		}
	}
	sqldb.Close()
	return nil, fmt.Errorf("database unreachable after %d attempts: %v", connectAttempts, err)
}

// NewStore wraps an open connection in a bun client.
func NewStore(sqldb *sql.DB, cfg *config.DBConfig, vectorSize int) *Store {
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db, vectorSize: vectorSize}
}

// maxSimFn scores a document's vector list against the query's: the
// best cosine match per query vector, summed over all query vectors.
const maxSimFn = `
CREATE OR REPLACE FUNCTION max_sim(document vector[], query vector[]) RETURNS double precision AS $$
    WITH queries AS (
        SELECT row_number() OVER () AS query_number, * FROM (SELECT unnest(query) AS query)
    ),
    documents AS (
        SELECT unnest(document) AS document
    ),
    similarities AS (
        SELECT query_number, 1 - (document <=> query) AS similarity FROM queries CROSS JOIN documents
    ),
    max_similarities AS (
        SELECT MAX(similarity) AS max_similarity FROM similarities GROUP BY query_number
    )
    SELECT SUM(max_similarity) FROM max_similarities
$$ LANGUAGE SQL
`

// Init runs the idempotent migration: pgvector extension, max_sim
// function and the documents table. Existing rows are kept.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, maxSimFn); err != nil {
		return fmt.Errorf("creating max_sim function: %v", err)
	}
	createTable := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS documents (id bigserial PRIMARY KEY, content text, embeddings vector(%d)[])",
		s.vectorSize)
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating documents table: %v", err)
	}
	return nil
}

// Reset drops the documents table and recreates it, discarding all
// ingested rows.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS documents"); err != nil {
		return fmt.Errorf("dropping documents table: %v", err)
	}
	return s.Init(ctx)
}

func (s *Store) Insert(ctx context.Context, content string, embeddings [][]float32) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (content, embeddings) VALUES (?, ?::vector[])",
		content, pq.Array(formatVectorArray(embeddings)))
	return err
}

func (s *Store) Search(ctx context.Context, query [][]float32, limit int) ([]models.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT content, max_sim(embeddings, ?::vector[]) AS score FROM documents ORDER BY score DESC, id ASC LIMIT ?",
		pq.Array(formatVectorArray(query)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.Content, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
