package chunker

import (
	"fmt"

	"pdf-chat/internal/models"
)

const (
	DefaultChunkSize = 1000 // characters
	DefaultOverlap   = 100  // characters
)

// Chunker splits text into fixed-size windows with overlap.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New validates the window parameters. overlap must be strictly smaller
// than chunkSize, otherwise the window start would never advance.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", chunkSize, overlap)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Iterator walks the chunks of one text lazily. A fresh Iterator from
// Iter restarts at the beginning.
type Iterator struct {
	c        *Chunker
	text     string
	start    int
	position int
	done     bool
}

// Iter returns a pull iterator over the chunks of text.
func (c *Chunker) Iter(text string) *Iterator {
	return &Iterator{c: c, text: text}
}

// Next returns the next chunk, or false once the text is exhausted.
func (it *Iterator) Next() (models.Chunk, bool) {
	if it.done || it.start >= len(it.text) {
		return models.Chunk{}, false
	}
	end := it.start + it.c.chunkSize
	if end >= len(it.text) {
		// the window reached the end of the text, a further window
		// would fall entirely inside this one's overlap
		end = len(it.text)
		it.done = true
	}
	chunk := models.Chunk{
		Content:  it.text[it.start:end],
		Position: it.position,
	}
	it.start += it.c.chunkSize - it.c.overlap
	it.position++
	return chunk, true
}

// Split materializes all chunks of text.
func (c *Chunker) Split(text string) []models.Chunk {
	var chunks []models.Chunk
	it := c.Iter(text)
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
