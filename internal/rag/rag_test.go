package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"pdf-chat/internal/config"
	"pdf-chat/internal/models"
	"pdf-chat/internal/vectorstore/memory"
)

type fixedEmbedder struct {
	vectors [][]float32
}

func (f *fixedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][][]float32, error) {
	out := make([][][]float32, len(texts))
	for i := range texts {
		out[i] = f.vectors
	}
	return out, nil
}

func (f *fixedEmbedder) EmbedQuery(ctx context.Context, text string) ([][]float32, error) {
	return f.vectors, nil
}

func fixedGenerator(reply string) GenerateFunc {
	return func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: reply}},
		}, nil
	}
}

func testConfig(t *testing.T, marker string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "response.yaml")
	tpl := "system: |\n  Use the context to answer.\n  Context:\n  {context_snippets}\n  Question: {user_query}\n"
	require.NoError(t, os.WriteFile(path, []byte(tpl), 0o644))

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.RAG.PromptPath = path
	cfg.RAG.AnswerMarker = marker
	return cfg
}

func TestAnswerAppendsConversationTurns(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Insert(ctx, "stored chunk", [][]float32{{1, 0}}))

	r := NewRAG(store, &fixedEmbedder{vectors: [][]float32{{1, 0}}}, testConfig(t, "")).
		WithGenerator(fixedGenerator("the answer"))

	answer, err := r.Answer(ctx, "what is stored?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	turns := r.Conversation()
	require.Len(t, turns, 2)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "what is stored?"}, turns[0])
	assert.Equal(t, models.Message{Role: models.RoleAssistant, Content: "the answer"}, turns[1])
}

func TestAnswerIncludesRetrievedContextInPrompt(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Insert(ctx, "alpha snippet", [][]float32{{1, 0}}))

	var seenSystem string
	generate := func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
		require.NotEmpty(t, messages)
		part := messages[0].Parts[0].(llms.TextContent)
		seenSystem = part.Text
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}, nil
	}

	r := NewRAG(store, &fixedEmbedder{vectors: [][]float32{{1, 0}}}, testConfig(t, "")).
		WithGenerator(generate)

	_, err := r.Answer(ctx, "tell me about alpha")
	require.NoError(t, err)
	assert.Contains(t, seenSystem, "alpha snippet")
	assert.Contains(t, seenSystem, "tell me about alpha")
}

// An empty store yields empty context, which must still produce a
// well-formed answer.
func TestAnswerEmptyStore(t *testing.T) {
	r := NewRAG(memory.NewStore(), &fixedEmbedder{vectors: [][]float32{{1, 0}}}, testConfig(t, "")).
		WithGenerator(fixedGenerator("no context needed"))

	answer, err := r.Answer(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, "no context needed", answer)
}

func TestQueryReturnsSources(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Insert(ctx, "first chunk", [][]float32{{1, 0}}))
	require.NoError(t, store.Insert(ctx, "second chunk", [][]float32{{0, 1}}))

	r := NewRAG(store, &fixedEmbedder{vectors: [][]float32{{1, 0}}}, testConfig(t, "")).
		WithGenerator(fixedGenerator("ok"))

	res, err := r.Query(ctx, "what chunks exist?")
	require.NoError(t, err)
	assert.Equal(t, "what chunks exist?", res.Query)
	assert.Equal(t, "ok", res.Content)
	assert.Contains(t, res.Source, "first chunk")
	assert.Contains(t, res.Source, "second chunk")
}

func TestParseResponseStripsThinkTags(t *testing.T) {
	r := NewRAG(memory.NewStore(), &fixedEmbedder{}, testConfig(t, ""))
	got := r.parseResponse("<think>internal reasoning</think>  final text")
	assert.Equal(t, "final text", got)
}

func TestParseResponseMarkerPresent(t *testing.T) {
	r := NewRAG(memory.NewStore(), &fixedEmbedder{}, testConfig(t, "Answer:"))
	got := r.parseResponse("some preamble Answer: the real reply")
	assert.Equal(t, "the real reply", got)
}

func TestParseResponseMarkerMissingFallsBack(t *testing.T) {
	r := NewRAG(memory.NewStore(), &fixedEmbedder{}, testConfig(t, "Answer:"))
	got := r.parseResponse("reply without any marker")
	assert.Equal(t, "reply without any marker", got)
}

func TestSearchUsesLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, content := range []string{"a", "b", "c"} {
		require.NoError(t, store.Insert(ctx, content, [][]float32{{1, 0}}))
	}
	r := NewRAG(store, &fixedEmbedder{vectors: [][]float32{{1, 0}}}, testConfig(t, ""))

	results, err := r.Search(ctx, "query", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSessionIDAssigned(t *testing.T) {
	r := NewRAG(memory.NewStore(), &fixedEmbedder{}, testConfig(t, ""))
	assert.NotEmpty(t, r.SessionID())
}
