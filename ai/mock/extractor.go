package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/htsfinder/core"
)

// MockKeywordExtractor is a test double for ai.KeywordExtractor.
type MockKeywordExtractor struct {
	ExtractKeywordsFunc func(ctx context.Context, query string) (core.KeywordSet, error)

	callCount atomic.Int64
}

// NewMockKeywordExtractor creates a mock keyword extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockKeywordExtractor() *MockKeywordExtractor {
	return &MockKeywordExtractor{}
}

// ExtractKeywords returns mock keywords for query.
// Default behavior: the first word is the object keyword, the remaining words
// are context keywords.
func (m *MockKeywordExtractor) ExtractKeywords(ctx context.Context, query string) (core.KeywordSet, error) {
	m.callCount.Add(1)

	if m.ExtractKeywordsFunc != nil {
		return m.ExtractKeywordsFunc(ctx, query)
	}

	if err := ctx.Err(); err != nil {
		return core.KeywordSet{}, err
	}

	words := strings.Fields(query)
	for i, w := range words {
		words[i] = strings.Trim(w, ".,!?;:\"'()[]{}")
	}
	if len(words) == 0 {
		return core.NewKeywordSet(nil, nil), nil
	}
	return core.NewKeywordSet(words[:1], words[1:]), nil
}

// CallCount returns the number of times ExtractKeywords was called.
func (m *MockKeywordExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockKeywordExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractKeywordsFunc = nil
}
