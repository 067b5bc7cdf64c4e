// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package htsfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/ai/backend"
	"github.com/poiesic/htsfinder/ai/openai"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/navigation"
	"github.com/poiesic/htsfinder/search"
	"github.com/poiesic/htsfinder/storage"
	"github.com/poiesic/htsfinder/storage/badger"
	"github.com/poiesic/htsfinder/tree"
)

// Session is one browsing session over a classification tree. It owns the
// focus path, the current results, the last error and the search history.
// All methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	tree       *tree.Tree
	treeErr    error
	nav        *navigation.Navigator
	results    []core.RankedResult
	lastQuery  string
	lastErr    error
	generation uint64
	cancel     context.CancelFunc

	searcher *search.Searcher
	provider ai.AIProvider
	monitor  search.SearchMonitor
	backend  *badger.Backend
	history  storage.HistoryRepository
	logger   *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	searchOptions []search.Option
	monitor       search.SearchMonitor
	logger        *slog.Logger
}

// WithAIConfig sets the collaborator configuration used to build a provider.
func WithAIConfig(cfg *ai.Config) SessionOption {
	return func(o *sessionOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider uses provider instead of building one from the AI config.
// The session takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) SessionOption {
	return func(o *sessionOptions) {
		o.provider = provider
	}
}

// WithSearchOptions passes options through to the searcher.
func WithSearchOptions(opts ...search.Option) SessionOption {
	return func(o *sessionOptions) {
		o.searchOptions = append(o.searchOptions, opts...)
	}
}

// WithMonitor attaches a monitor to every search of the session.
func WithMonitor(monitor search.SearchMonitor) SessionOption {
	return func(o *sessionOptions) {
		o.monitor = monitor
	}
}

// WithSessionLogger sets the session's logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// NewProvider builds the collaborator adapter selected by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderBackend:
		return backend.NewProvider(cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// OpenSession loads the tree at path and starts a session over it. A tree
// that fails to load leaves the session with an empty tree; the load error is
// available from TreeError and as the initial LastError.
func OpenSession(path string, opts ...SessionOption) (*Session, error) {
	t, err := tree.LoadFile(path)
	if err != nil {
		s, serr := NewSession(tree.New(nil), opts...)
		if serr != nil {
			return nil, serr
		}
		s.treeErr = err
		s.lastErr = err
		s.logger.Error("error loading tree", "path", path, "err", err)
		return s, nil
	}
	return NewSession(t, opts...)
}

// NewSession starts a session over t.
func NewSession(t *tree.Tree, opts ...SessionOption) (*Session, error) {
	options := &sessionOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if t == nil {
		t = tree.New(nil)
	}
	logger := options.logger.With("component", "session")

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	searchOpts := slices.Clone(options.searchOptions)
	if options.aiConfig.Timeout > 0 {
		searchOpts = append([]search.Option{search.WithCallTimeout(options.aiConfig.Timeout)}, searchOpts...)
	}
	searchOpts = append([]search.Option{search.WithLogger(options.logger)}, searchOpts...)
	searcher, err := search.NewSearcher(provider, searchOpts...)
	if err != nil {
		provider.Close()
		return nil, err
	}

	history, historyBackend, err := badger.NewMemoryHistoryRepository()
	if err != nil {
		searcher.Close()
		provider.Close()
		return nil, fmt.Errorf("opening history: %w", err)
	}

	return &Session{
		tree:     t,
		nav:      navigation.New(t),
		searcher: searcher,
		provider: provider,
		monitor:  options.monitor,
		backend:  historyBackend,
		history:  history,
		logger:   logger,
	}, nil
}

// Search runs query through the pipeline and replaces the current results.
//
// A session whose tree failed to load cannot search; the load error is
// returned and stays the last error. A blank query clears the results without
// calling the collaborators and keeps the last error. Starting a search
// cancels the one in flight; a search that finishes after a newer one has
// started returns core.ErrSuperseded and leaves the session untouched. A
// failed search keeps the previous results and records the error.
func (s *Session) Search(ctx context.Context, query string) ([]core.RankedResult, error) {
	if s.treeErr != nil {
		return nil, fmt.Errorf("search unavailable: %w", s.treeErr)
	}
	query = strings.TrimSpace(query)

	s.mu.Lock()
	gen := s.supersede()
	if query == "" {
		s.results = nil
		s.lastQuery = ""
		s.mu.Unlock()
		return nil, nil
	}
	searchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	t := s.tree
	s.mu.Unlock()

	outcome, err := s.searcher.SearchWithMonitor(searchCtx, t, query, s.monitor)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if gen != s.generation {
		s.logger.Debug("discarding superseded search", "query", query)
		return nil, core.ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.lastErr = err
		return nil, err
	}

	s.results = outcome.Results
	s.lastQuery = outcome.Query
	s.lastErr = nil
	s.record(context.WithoutCancel(ctx), outcome)
	return slices.Clone(s.results), nil
}

// supersede cancels any search in flight and returns the new generation.
// Callers hold s.mu.
func (s *Session) supersede() uint64 {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	return s.generation
}

// record adds outcome to the history. Failures are logged only.
func (s *Session) record(ctx context.Context, outcome *search.Outcome) {
	entry := &core.HistoryEntry{
		Query:    outcome.Query,
		Keywords: outcome.Keywords,
		Results:  slices.Clone(outcome.Results),
	}
	if _, err := s.history.AddEntry(ctx, entry); err != nil {
		s.logger.Warn("error recording search history", "query", outcome.Query, "err", err)
	}
}

// Results returns a copy of the current results.
func (s *Session) Results() []core.RankedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// LastQuery returns the query that produced the current results.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// LastError returns the error of the last failed operation, or nil once a
// search has succeeded since.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// TreeError returns the tree load error, if any.
func (s *Session) TreeError() error {
	return s.treeErr
}

// Tree returns the session's tree.
func (s *Session) Tree() *tree.Tree {
	return s.tree
}

// View returns the focused node. Its children are the current listing.
func (s *Session) View() *core.TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.FocusedView()
}

// Focus moves into the child of the focused view with the given code.
func (s *Session) Focus(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.FocusCode(code)
}

// FocusChild moves into the i-th child of the focused view.
func (s *Session) FocusChild(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.FocusChild(i)
}

// Back moves the focus one level up.
func (s *Session) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Back()
}

// SelectResult focuses the parent of code so that code is on display.
func (s *Session) SelectResult(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.nav.SelectResult(code); err != nil {
		s.lastErr = err
		return err
	}
	return nil
}

// Path returns a copy of the focus path.
func (s *Session) Path() []*core.TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Path()
}

// Describe renders the focus path one line per node.
func (s *Session) Describe() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Describe()
}

// History returns up to limit recorded searches, newest first.
func (s *Session) History(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	return s.history.GetRecentEntries(ctx, limit)
}

// Recall makes the results of a recorded search current again.
func (s *Session) Recall(ctx context.Context, id core.ID) (*core.HistoryEntry, error) {
	entry, err := s.history.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.results = slices.Clone(entry.Results)
	s.lastQuery = entry.Query
	s.lastErr = nil
	return entry, nil
}

// LastFor returns the latest recorded search for query.
func (s *Session) LastFor(ctx context.Context, query string) (*core.HistoryEntry, error) {
	return s.history.GetLatestForQuery(ctx, query)
}

// CandidateLimit returns how many candidates each search sends to the reranker.
func (s *Session) CandidateLimit() int {
	return s.searcher.CandidateLimit()
}

// Close cancels any search in flight and releases the session's resources.
// The history is discarded.
func (s *Session) Close() error {
	s.mu.Lock()
	s.supersede()
	s.mu.Unlock()

	var errs []error
	s.searcher.Close()
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := s.history.Close(); err != nil {
		s.logger.Error("error closing history repository", "err", err)
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
