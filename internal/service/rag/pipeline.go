package rag

import (
	"context"
	"errors"

	"github.com/sandevgo/vndbot/internal/core"
	"github.com/sandevgo/vndbot/pkg/log"
)

// Reply strings shown to users. Diagnostics go to the operator log, never
// to a chat.
const (
	ReplySearching        = "🔍 Ищу информацию..."
	ReplyNotConfigured    = "❌ Ошибка: OpenAI клиент не настроен."
	ReplyNoInformation    = "⚠️ К сожалению, я не нашел информации по вашему вопросу в базе знаний."
	ReplyGenerationFailed = "❌ Ошибка при генерации ответа."
	ReplyInternalError    = "❌ Произошла внутренняя ошибка."

	emptyAnswerPlaceholder = "Пустой ответ от LLM"
	unknownSource          = "unknown"
	modelProvider          = "openai"
)

// Pipeline answers free-text questions: embed the question, search the
// vector store, assemble the context and ask the generation service.
// Every failure stops at this boundary as one of the fixed replies above.
type Pipeline struct {
	messenger   core.Messenger
	embedder    core.Embedder // nil when no embedding credential is configured
	store       core.VectorSearcher
	generator   core.Generator
	searchLimit int
}

func NewPipeline(
	messenger core.Messenger,
	embedder core.Embedder,
	store core.VectorSearcher,
	generator core.Generator,
	searchLimit int,
) *Pipeline {
	return &Pipeline{
		messenger:   messenger,
		embedder:    embedder,
		store:       store,
		generator:   generator,
		searchLimit: searchLimit,
	}
}

// Answer runs the full pipeline for one question, preceded by an immediate
// acknowledgment so the user sees responsiveness before retrieval
// completes. Exactly one final reply is delivered per invocation.
func (p *Pipeline) Answer(ctx context.Context, chatID, question string) {
	logger := log.FromCtx(ctx)

	if err := p.messenger.SendText(ctx, chatID, ReplySearching); err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("failed to send acknowledgment")
	}

	reply := p.run(ctx, question)

	if err := p.messenger.SendText(ctx, chatID, reply); err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("failed to send reply")
	}
}

// run executes the retrieval steps strictly in sequence and maps each
// failure to its user-facing reply.
func (p *Pipeline) run(ctx context.Context, question string) string {
	logger := log.FromCtx(ctx)

	if p.embedder == nil {
		logger.Warn().Msg("question received but no embedding client is configured")
		return ReplyNotConfigured
	}

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		logger.Error().Err(err).Msg("embedding failed")
		return ReplyInternalError
	}
	if len(vector) == 0 {
		logger.Error().Msg("embedding provider returned an empty vector")
		return ReplyInternalError
	}

	hits, err := p.store.Search(ctx, vector, p.searchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("vector search failed")
		return ReplyInternalError
	}
	// An empty result set is a distinct outcome, not an error: generation
	// is skipped entirely.
	if len(hits) == 0 {
		return ReplyNoInformation
	}

	request := core.RetrievalRequest{
		Question:      question,
		Context:       assembleContext(hits),
		ModelProvider: modelProvider,
	}

	answer, err := p.generator.Generate(ctx, request)
	if err != nil {
		var genErr *core.GenerationError
		if errors.As(err, &genErr) {
			logger.Error().
				Int("status", genErr.StatusCode).
				Str("body", genErr.Body).
				Msg("generation service rejected the request")
			return ReplyGenerationFailed
		}
		logger.Error().Err(err).Msg("generation call failed")
		return ReplyInternalError
	}

	if answer == "" {
		return emptyAnswerPlaceholder
	}
	return answer
}

// assembleContext keeps the store's score ordering and does not
// deduplicate overlapping chunks.
func assembleContext(hits []core.SearchHit) []core.ContextChunk {
	chunks := make([]core.ContextChunk, len(hits))
	for i, hit := range hits {
		source := hit.Payload.SourceFile
		if source == "" {
			source = unknownSource
		}
		chunks[i] = core.ContextChunk{Text: hit.Payload.Text, Source: source}
	}
	return chunks
}
