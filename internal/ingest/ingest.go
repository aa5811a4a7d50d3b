// Package ingest runs the chunk-embed-store pipeline: stream chunks
// from the chunker, embed them in fixed-size batches, and write each
// chunk's full vector list to the store. Batches are processed
// sequentially to bound peak memory; a failure mid-run leaves the
// already-written rows in place.
package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pdf-chat/internal/chunker"
	"pdf-chat/internal/embedding"
	"pdf-chat/internal/models"
	"pdf-chat/internal/parser"
	"pdf-chat/internal/vectorstore"
)

const DefaultBatchSize = 128

type Pipeline struct {
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	store     vectorstore.Store
	batchSize int
}

func NewPipeline(c *chunker.Chunker, embedder embedding.Embedder, store vectorstore.Store, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{chunker: c, embedder: embedder, store: store, batchSize: batchSize}
}

// Ingest chunks the text, embeds the chunks batch by batch and stores
// one row per chunk. It returns the number of chunks stored.
func (p *Pipeline) Ingest(ctx context.Context, text string) (int, error) {
	it := p.chunker.Iter(text)

	total := 0
	batchNum := 0
	batch := make([]models.Chunk, 0, p.batchSize)
	for {
		chunk, ok := it.Next()
		if ok {
			batch = append(batch, chunk)
		}
		if len(batch) == p.batchSize || (!ok && len(batch) > 0) {
			batchNum++
			if err := p.storeBatch(ctx, batch); err != nil {
				return total, fmt.Errorf("batch %d: %v", batchNum, err)
			}
			total += len(batch)
			log.Info().Int("batch", batchNum).Int("chunks", total).Msg("Stored embeddings")
			batch = batch[:0]
		}
		if !ok {
			break
		}
	}
	return total, nil
}

// IngestFile extracts a document's text and ingests it.
func (p *Pipeline) IngestFile(ctx context.Context, filePath string) (int, error) {
	text, err := parser.ExtractText(filePath)
	if err != nil {
		return 0, err
	}
	n, err := p.Ingest(ctx, text)
	if err != nil {
		return n, err
	}
	log.Info().Int("chunks", n).Str("file", filePath).Msg("Embedded and stored document")
	return n, nil
}

func (p *Pipeline) storeBatch(ctx context.Context, batch []models.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	embeddings, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	for i, chunk := range batch {
		if err := p.store.Insert(ctx, chunk.Content, embeddings[i]); err != nil {
			return fmt.Errorf("storing chunk %d: %w", chunk.Position, err)
		}
	}
	return nil
}
