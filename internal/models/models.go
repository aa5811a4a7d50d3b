package models

// Chunk is one fixed-size window of a document's extracted text.
type Chunk struct {
	Content  string
	Position int
}

// SearchResult is a stored chunk returned by a similarity search.
type SearchResult struct {
	Content string
	Score   float64
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string
	Content string
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
