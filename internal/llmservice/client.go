package llmservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-chat/internal/config"
)

// GenerateContent calls the configured OpenAI-compatible chat endpoint
// with a bounded output-token budget and fixed sampling temperature.
// Errors are not retried, the caller decides.
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, messages []llms.MessageContent) (*llms.ContentResponse, error) {
	log.Debug().Str("model", llmConfig.Model).Int("messages", len(messages)).Msg("Generating content")
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}

	return llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(llmConfig.MaxTokens),
		llms.WithTemperature(llmConfig.Temperature),
	)
}
