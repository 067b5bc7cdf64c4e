package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/core"
	"github.com/tmc/langchaingo/llms"
)

// Reranker implements ai.Reranker using OpenAI-compatible chat APIs.
// Ranking rules live in the system prompt.
type Reranker struct {
	client llms.Model
	logger *slog.Logger
}

func newReranker(client llms.Model) *Reranker {
	return &Reranker{
		client: client,
		logger: slog.Default().With("component", "openai-reranker"),
	}
}

// NewReranker creates a new reranker using the provided configuration.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newReranker(client), nil
}

// Rerank sends keywords and candidates to the chat model and returns at most
// limit results in the order the model gave them.
func (r *Reranker) Rerank(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error) {
	if len(candidates) == 0 {
		return []core.RankedResult{}, nil
	}

	input, err := buildRankingInput(keywords, candidates)
	if err != nil {
		return nil, err
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildRankingPrompt(limit)),
		llms.TextParts(llms.ChatMessageTypeHuman, input),
	}

	text, err := generate(ctx, r.client, content)
	if err != nil {
		r.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	results, err := parseWithRepair(text, ai.ParseRanking)
	if err != nil {
		r.logger.Warn("error parsing reranker response", "response", text, "err", err)
		return nil, err
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	r.logger.Debug("reranked candidates", "candidates", len(candidates), "results", len(results))
	return results, nil
}
