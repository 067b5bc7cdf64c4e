// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.KeywordExtractor,
// ai.Reranker, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without a chat model or keyword service and give controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	keywords, err := mockProvider.KeywordExtractor().ExtractKeywords(ctx, "horse breeding")
//
//	// Custom behavior injection
//	extractor := mock.NewMockKeywordExtractor()
//	extractor.ExtractKeywordsFunc = func(ctx context.Context, query string) (core.KeywordSet, error) {
//	    return core.KeywordSet{}, errors.New("service down")
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
//
// # Default Behavior
//
//   - MockKeywordExtractor: first word is the object keyword, the rest are context keywords
//   - MockReranker: keeps candidate order, scores 10 points per lexical match
//   - MockProvider: aggregates mock extractor and reranker
package mock
