package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pdf-chat/internal/config"
)

// Embedder converts texts into multi-vector (token-level) embeddings,
// one ordered list of fixed-dimension vectors per input text.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([][]float32, error)
}

// Client talks to a ColBERT-style embedding server over HTTP. Every
// call is a fresh model invocation; there is no caching and no retry,
// server errors propagate to the caller.
type Client struct {
	baseURL     string
	model       string
	docMaxLen   int
	queryMaxLen int
	httpClient  *http.Client
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		docMaxLen:   cfg.DocMaxLen,
		queryMaxLen: cfg.QueryMaxLen,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}
}

type embedRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	InputType string   `json:"input_type"`
	MaxLength int      `json:"max_length,omitempty"`
}

type embedResponse struct {
	Embeddings [][][]float32 `json:"embeddings"`
}

func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.embed(ctx, embedRequest{
		Model:     c.model,
		Input:     texts,
		InputType: "document",
		MaxLength: c.docMaxLen,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d embeddings", len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([][]float32, error) {
	resp, err := c.embed(ctx, embedRequest{
		Model:     c.model,
		Input:     []string{text},
		InputType: "query",
		MaxLength: c.queryMaxLen,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(resp.Embeddings))
	}
	return resp.Embeddings[0], nil
}

func (c *Client) embed(ctx context.Context, payload embedRequest) (*embedResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("model", payload.Model).Str("input_type", payload.InputType).Int("texts", len(payload.Input)).Msg("Embedding request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed: %d, %s", resp.StatusCode, string(body))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
