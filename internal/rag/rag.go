package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"pdf-chat/internal/config"
	"pdf-chat/internal/embedding"
	"pdf-chat/internal/helper"
	"pdf-chat/internal/llmservice"
	"pdf-chat/internal/models"
	"pdf-chat/internal/prompt"
	"pdf-chat/internal/vectorstore"
)

// GenerateFunc produces a chat completion for the given messages.
type GenerateFunc func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error)

// RAG answers queries by retrieving the most similar stored chunks and
// conditioning the LLM on them. It holds one append-only conversation
// for its lifetime.
type RAG struct {
	store        vectorstore.Store
	embedder     embedding.Embedder
	cfg          *config.Config
	generate     GenerateFunc
	sessionID    string
	conversation []models.Message
	thinkRe      *regexp.Regexp
}

func NewRAG(store vectorstore.Store, embedder embedding.Embedder, cfg *config.Config) *RAG {
	sessionID, err := helper.GenerateUUID()
	if err != nil {
		log.Warn().Err(err).Msg("Could not generate session id")
	}
	return &RAG{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		generate: func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
			return llmservice.GenerateContent(ctx, &cfg.InferLLM, messages)
		},
		sessionID: sessionID,
		thinkRe:   regexp.MustCompile(models.ThinkTag),
	}
}

// WithGenerator swaps the completion backend, used by tests.
func (r *RAG) WithGenerator(generate GenerateFunc) *RAG {
	r.generate = generate
	return r
}

// SessionID identifies this conversation.
func (r *RAG) SessionID() string { return r.sessionID }

// Conversation returns the turns exchanged so far.
func (r *RAG) Conversation() []models.Message { return r.conversation }

// Search embeds the query and returns the top-limit stored chunks with
// their max-sim scores, best first. Duplicate content is not filtered
// and no score threshold is applied.
func (r *RAG) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	queryEmbeddings, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.store.Search(ctx, queryEmbeddings, limit)
}

// Answer retrieves context for the query, renders the prompt template,
// invokes the LLM and appends the user and assistant turns to the
// conversation.
func (r *RAG) Answer(ctx context.Context, query string) (string, error) {
	res, err := r.Query(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Query is Answer plus the retrieved source snippets.
func (r *RAG) Query(ctx context.Context, query string) (*models.PromptResponse, error) {
	results, err := r.Search(ctx, query, r.cfg.RAG.TopK)
	if err != nil {
		return nil, err
	}
	snippets := make([]string, len(results))
	for i, res := range results {
		snippets[i] = res.Content
	}

	tpl, err := prompt.Load(r.cfg.RAG.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("loading prompt template: %w", err)
	}
	system := tpl.Render(snippets, query)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
	}
	for _, turn := range r.conversation {
		messages = append(messages, llms.TextParts(chatMessageType(turn.Role), turn.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, query))

	res, err := r.generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generating response: %w", err)
	}
	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	answer := r.parseResponse(res.Choices[0].Content)
	r.conversation = append(r.conversation,
		models.Message{Role: models.RoleUser, Content: query},
		models.Message{Role: models.RoleAssistant, Content: answer},
	)
	return &models.PromptResponse{
		Query:   query,
		Source:  strings.Join(snippets, models.ContextSeparator),
		Content: answer,
	}, nil
}

// parseResponse strips reasoning tags and, when an answer marker is
// configured, keeps only the text after it. A configured marker that
// is missing from the output falls back to the full output rather than
// truncating silently.
func (r *RAG) parseResponse(output string) string {
	output = r.thinkRe.ReplaceAllString(output, "")
	marker := r.cfg.RAG.AnswerMarker
	if marker == "" {
		return strings.TrimSpace(output)
	}
	_, after, found := strings.Cut(output, marker)
	if !found {
		log.Warn().Str("marker", marker).Msg("Answer marker missing from model output, returning full output")
		return strings.TrimSpace(output)
	}
	return strings.TrimSpace(after)
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}
