package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/htsfinder/core"
)

// MockReranker is a test double for ai.Reranker.
type MockReranker struct {
	RerankFunc func(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error)

	callCount atomic.Int64
}

// NewMockReranker creates a mock reranker with default behavior.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank returns mock results.
// Default behavior: keeps the candidate order and scores each candidate
// 10 points per matched keyword, capped at 100.
func (m *MockReranker) Rerank(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error) {
	m.callCount.Add(1)

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, keywords, candidates, limit)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(candidates)
	if limit > 0 && n > limit {
		n = limit
	}
	results := make([]core.RankedResult, 0, n)
	for _, c := range candidates[:n] {
		score := float64(min(c.LocalSimilarity*10, 100))
		results = append(results, core.RankedResult{
			Code:        c.Code,
			Description: c.Description,
			Score:       score,
			Explanation: "mock ranking",
		})
	}
	return results, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockReranker) Reset() {
	m.callCount.Store(0)
	m.RerankFunc = nil
}
