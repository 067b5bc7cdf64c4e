package search

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/tree"
)

const (
	// DefaultCandidateLimit is how many candidates survive lexical scoring.
	DefaultCandidateLimit = 30

	defaultChunkSize = 512
)

// Scorer ranks tree entries by how many keyword tokens occur in their full
// description. It is safe for concurrent use.
type Scorer struct {
	pool      *ants.Pool
	limit     int
	chunkSize int
	logger    *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer) error

// WithCandidateLimit sets how many candidates Score returns.
// Default is DefaultCandidateLimit.
func WithCandidateLimit(limit int) ScorerOption {
	return func(s *Scorer) error {
		if limit < 1 {
			limit = DefaultCandidateLimit
		}
		s.limit = limit
		return nil
	}
}

// WithPoolSize sets the worker pool size for scoring.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) ScorerOption {
	return func(s *Scorer) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithChunkSize sets how many entries one pool task scores.
func WithChunkSize(size int) ScorerOption {
	return func(s *Scorer) error {
		if size < 1 {
			size = defaultChunkSize
		}
		s.chunkSize = size
		return nil
	}
}

// WithScorerLogger sets a custom logger.
// Default is slog.Default().
func WithScorerLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScorer creates a scorer backed by its own worker pool.
// Call Close to release the pool.
func NewScorer(opts ...ScorerOption) (*Scorer, error) {
	poolSize := max(runtime.NumCPU(), 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Scorer{
		pool:      pool,
		limit:     DefaultCandidateLimit,
		chunkSize: defaultChunkSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// Limit returns the number of candidates Score keeps.
func (s *Scorer) Limit() int {
	return s.limit
}

// Score returns up to Limit candidates ordered by descending local
// similarity. Entries with equal similarity keep their tree order. With no
// keyword tokens every entry scores zero.
func (s *Scorer) Score(ctx context.Context, t *tree.Tree, keywords core.KeywordSet) ([]core.Candidate, error) {
	if t == nil {
		return nil, ErrTreeRequired
	}

	entries := t.Entries()
	tokens := keywords.Tokens()
	candidates := make([]core.Candidate, len(entries))

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for start := 0; start < len(entries); start += s.chunkSize {
		end := min(start+s.chunkSize, len(entries))

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				setErr(err)
				return
			}
			for i := start; i < end; i++ {
				candidates[i] = scoreEntry(&entries[i], tokens)
			}
		})
		if err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		s.logger.Error("lexical scoring failed", "err", firstErr)
		return nil, firstErr
	}

	slices.SortStableFunc(candidates, func(a, b core.Candidate) int {
		return cmp.Compare(b.LocalSimilarity, a.LocalSimilarity)
	})
	if len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}

	s.logger.Debug("scored entries",
		"entries", len(entries),
		"tokens", len(tokens),
		"kept", len(candidates))
	return candidates, nil
}

// Close releases the worker pool.
func (s *Scorer) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

func scoreEntry(e *tree.Entry, tokens []string) core.Candidate {
	sim := 0
	for _, tok := range tokens {
		if e.Contains(tok) {
			sim++
		}
	}
	return core.Candidate{
		Code:            e.Node.Code,
		Description:     e.Node.Description,
		FullDescription: e.FullDescription,
		LocalSimilarity: sim,
	}
}
