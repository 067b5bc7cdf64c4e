package ai

import (
	"context"

	"github.com/poiesic/htsfinder/core"
)

// KeywordExtractor turns a free-text query into keyword sets.
// Implementations must be thread-safe for concurrent use.
type KeywordExtractor interface {
	// ExtractKeywords maps a raw query to object keywords (what the goods are)
	// and context keywords (material, use, condition...).
	// Returns a *ParseFailure when the service output cannot be understood.
	ExtractKeywords(ctx context.Context, query string) (core.KeywordSet, error)
}

// Reranker orders a candidate set by relevance to the extracted keywords.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// Rerank returns up to limit results, best first. Results are expected to
	// reference codes from candidates only; callers do not rely on it.
	// Returns a *ParseFailure when the service output cannot be understood.
	Rerank(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error)
}

// AIProvider aggregates the collaborators used by a search session.
type AIProvider interface {
	// KeywordExtractor returns the keyword extraction service.
	KeywordExtractor() KeywordExtractor

	// Reranker returns the reranking service.
	Reranker() Reranker

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
