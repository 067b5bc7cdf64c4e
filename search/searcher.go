package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/tree"
)

const (
	// DefaultResultLimit is how many ranked results a search returns.
	DefaultResultLimit = 10

	// DefaultCallTimeout bounds each collaborator call.
	DefaultCallTimeout = 60 * time.Second
)

// Outcome is what one search produced.
type Outcome struct {
	Query      string
	Keywords   core.KeywordSet
	Candidates []core.Candidate
	Results    []core.RankedResult
}

// Searcher runs the extract, score, rerank and merge pipeline over a tree.
type Searcher struct {
	extractor   ai.KeywordExtractor
	reranker    ai.Reranker
	scorer      *Scorer
	resultLimit int
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithResultLimit sets how many results a search returns.
// Default is DefaultResultLimit.
func WithResultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			limit = DefaultResultLimit
		}
		s.resultLimit = limit
		return nil
	}
}

// WithCallTimeout bounds each collaborator call.
// Default is DefaultCallTimeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout <= 0 {
			timeout = DefaultCallTimeout
		}
		s.callTimeout = timeout
		return nil
	}
}

// WithScorerOptions configures the lexical scorer.
func WithScorerOptions(opts ...ScorerOption) Option {
	return func(s *Searcher) error {
		for _, opt := range opts {
			if err := opt(s.scorer); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	scorer, err := NewScorer()
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		extractor:   provider.KeywordExtractor(),
		reranker:    provider.Reranker(),
		scorer:      scorer,
		resultLimit: DefaultResultLimit,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// Search runs the pipeline for query over t.
func (s *Searcher) Search(ctx context.Context, t *tree.Tree, query string) (*Outcome, error) {
	return s.SearchWithMonitor(ctx, t, query, nil)
}

// SearchWithMonitor runs the pipeline for query over t with monitoring.
// The monitor receives callbacks at each stage of the search process.
//
// Extraction failures wrap core.ErrExtraction and reranking failures wrap
// core.ErrRanking; the underlying cause stays matchable with errors.Is and
// errors.As.
func (s *Searcher) SearchWithMonitor(ctx context.Context, t *tree.Tree, query string, monitor SearchMonitor) (*Outcome, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}
	if t == nil {
		return nil, ErrTreeRequired
	}

	monitor.Start(query)

	// 1. Extract keywords
	keywords, err := s.extractKeywords(ctx, query)
	if err != nil {
		s.logger.Error("error extracting keywords from query", "query", query, "err", err)
		err = fmt.Errorf("%w: %w", core.ErrExtraction, err)
		monitor.Failed(err)
		return nil, err
	}
	monitor.AfterKeywordExtraction(keywords)

	// 2. Score tree entries
	candidates, err := s.scorer.Score(ctx, t, keywords)
	if err != nil {
		monitor.Failed(err)
		return nil, err
	}
	monitor.AfterLexicalScoring(candidates)

	// 3. Rerank the shortlist
	ranked, err := s.rerank(ctx, keywords, candidates)
	if err != nil {
		s.logger.Error("error reranking candidates", "candidates", len(candidates), "err", err)
		err = fmt.Errorf("%w: %w", core.ErrRanking, err)
		monitor.Failed(err)
		return nil, err
	}
	monitor.AfterReranking(ranked)

	// 4. Merge full descriptions back in
	results := merge(ranked, candidates, s.resultLimit, s.logger, monitor)
	monitor.Finish(results)

	s.logger.Debug("search complete",
		"query", query,
		"candidates", len(candidates),
		"results", len(results))

	return &Outcome{
		Query:      query,
		Keywords:   keywords,
		Candidates: candidates,
		Results:    results,
	}, nil
}

func (s *Searcher) extractKeywords(ctx context.Context, query string) (core.KeywordSet, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.extractor.ExtractKeywords(callCtx, query)
}

func (s *Searcher) rerank(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate) ([]core.RankedResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return s.reranker.Rerank(callCtx, keywords, candidates, s.resultLimit)
}

// CandidateLimit returns how many candidates are sent to the reranker.
func (s *Searcher) CandidateLimit() int {
	return s.scorer.Limit()
}

// ResultLimit returns how many results a search returns.
func (s *Searcher) ResultLimit() int {
	return s.resultLimit
}

// Close releases the scorer's worker pool.
func (s *Searcher) Close() {
	s.scorer.Close()
}
