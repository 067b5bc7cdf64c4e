package htsfinder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/ai/mock"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/search"
	"github.com/poiesic/htsfinder/storage"
	"github.com/poiesic/htsfinder/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *tree.Tree {
	return tree.New([]*core.TreeNode{
		{
			Code:        "01",
			Description: "Live animals",
			Children: []*core.TreeNode{
				{
					Code:        "0101",
					Description: "Live horses, asses, mules and hinnies",
					Children: []*core.TreeNode{
						{Code: "0101.21", Description: "Purebred breeding animals"},
						{Code: "0101.30", Description: "Asses"},
					},
				},
				{Code: "0102", Description: "Live bovine animals"},
			},
		},
		{
			Code:        "03",
			Description: "Fish and crustaceans",
			Children: []*core.TreeNode{
				{Code: "0302", Description: "Fish, fresh or chilled"},
			},
		},
	})
}

func keywordsOf(query string) core.KeywordSet {
	return core.NewKeywordSet([]string{query}, nil)
}

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProviderWithServices(mock.NewMockKeywordExtractor(), mock.NewMockReranker())
	opts = append([]SessionOption{WithAIProvider(provider)}, opts...)
	s, err := NewSession(testTree(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, provider
}

func TestNewProvider(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig())
		require.NoError(t, err)
		assert.NoError(t, p.Close())
	})

	t.Run("backend", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(
			ai.WithProvider(ai.ProviderBackend),
			ai.WithEndpoint("http://localhost:8080/"),
		))
		require.NoError(t, err)
		assert.NoError(t, p.Close())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithProvider("carrier-pigeon")))
		assert.Error(t, err)
	})
}

func TestSession_Search(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	results, err := s.Search(ctx, "  horses  ")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "0101", results[0].Code)
	assert.Equal(t, "01 Live animals\n  0101 Live horses, asses, mules and hinnies", results[0].FullDescription)
	assert.Equal(t, results, s.Results())
	assert.Equal(t, "horses", s.LastQuery())
	assert.NoError(t, s.LastError())
	assert.Equal(t, 1, provider.GetMockExtractor().CallCount())
	assert.Equal(t, 1, provider.GetMockReranker().CallCount())

	t.Run("results are copies", func(t *testing.T) {
		got := s.Results()
		got[0].Code = "changed"
		assert.Equal(t, "0101", s.Results()[0].Code)
	})
}

func TestSession_EmptyQueryClearsResults(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	_, err := s.Search(ctx, "horses")
	require.NoError(t, err)
	require.NotEmpty(t, s.Results())

	results, err := s.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, s.Results())
	assert.Equal(t, 1, provider.GetMockExtractor().CallCount(), "no collaborator call for a blank query")
	assert.Equal(t, 1, provider.GetMockReranker().CallCount())

	t.Run("last error survives a blank query", func(t *testing.T) {
		down := errors.New("down")
		provider.GetMockExtractor().ExtractKeywordsFunc = func(context.Context, string) (core.KeywordSet, error) {
			return core.KeywordSet{}, down
		}
		_, err := s.Search(ctx, "fish")
		require.ErrorIs(t, err, down)

		_, err = s.Search(ctx, "  ")
		require.NoError(t, err)
		assert.ErrorIs(t, s.LastError(), core.ErrExtraction)
		assert.ErrorIs(t, s.LastError(), down)
	})
}

func TestSession_FailedSearchKeepsState(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	before, err := s.Search(ctx, "horses")
	require.NoError(t, err)
	require.True(t, s.Focus("01"))
	path := s.Path()

	boom := errors.New("service down")
	provider.GetMockReranker().RerankFunc = func(context.Context, core.KeywordSet, []core.Candidate, int) ([]core.RankedResult, error) {
		return nil, boom
	}

	_, err = s.Search(ctx, "fish")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRanking)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Results())
	assert.Equal(t, path, s.Path())
	assert.ErrorIs(t, s.LastError(), core.ErrRanking)

	provider.GetMockReranker().Reset()
	_, err = s.Search(ctx, "fish")
	require.NoError(t, err)
	assert.NoError(t, s.LastError(), "a successful search clears the last error")
}

func TestSession_UnparsableKeywords(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	before, err := s.Search(ctx, "horses")
	require.NoError(t, err)

	provider.GetMockExtractor().ExtractKeywordsFunc = func(context.Context, string) (core.KeywordSet, error) {
		return ai.ParseKeywords("sorry, I cannot help with that")
	}

	_, err = s.Search(ctx, "fish")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
	var pf *ai.ParseFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, ai.StageExtraction, pf.Stage)
	assert.Equal(t, before, s.Results())
	assert.Equal(t, 1, provider.GetMockReranker().CallCount(), "ranking is skipped")
}

func TestSession_LastQueryWins(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	started := make(chan struct{})
	provider.GetMockExtractor().ExtractKeywordsFunc = func(ctx context.Context, query string) (core.KeywordSet, error) {
		if query == "slow" {
			close(started)
			<-ctx.Done()
			return core.KeywordSet{}, ctx.Err()
		}
		return keywordsOf(query), nil
	}

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.Search(ctx, "slow")
		slowErr <- err
	}()
	<-started

	results, err := s.Search(ctx, "fish")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	select {
	case err := <-slowErr:
		assert.ErrorIs(t, err, core.ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded search did not return")
	}
	assert.Equal(t, results, s.Results())
	assert.Equal(t, "fish", s.LastQuery())
	assert.NoError(t, s.LastError())
}

func TestSession_Navigation(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, "root", s.View().Description)
	assert.Len(t, s.View().Children, 2)

	assert.True(t, s.FocusChild(0))
	assert.True(t, s.Focus("0101"))
	assert.Equal(t, "0101", s.View().Code)
	assert.Equal(t, "01 Live animals\n  0101 Live horses, asses, mules and hinnies", s.Describe())

	assert.False(t, s.Focus("0101.30"), "leaves cannot be focused")
	assert.False(t, s.Focus("9999"))

	assert.True(t, s.Back())
	assert.Equal(t, "01", s.View().Code)

	t.Run("select result", func(t *testing.T) {
		require.NoError(t, s.SelectResult("0302"))
		assert.Equal(t, "03", s.View().Code)

		err := s.SelectResult("9999")
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Equal(t, "03", s.View().Code)
	})
}

func TestSession_History(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	horses, err := s.Search(ctx, "horses")
	require.NoError(t, err)
	_, err = s.Search(ctx, "fish")
	require.NoError(t, err)

	entries, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fish", entries[0].Query)
	assert.Equal(t, "horses", entries[1].Query)

	latest, err := s.LastFor(ctx, "HORSES")
	require.NoError(t, err)
	assert.Equal(t, entries[1].Id, latest.Id)

	recalled, err := s.Recall(ctx, latest.Id)
	require.NoError(t, err)
	assert.Equal(t, "horses", recalled.Query)
	assert.Equal(t, horses, s.Results())
	assert.Equal(t, "horses", s.LastQuery())

	_, err = s.Recall(ctx, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSession_Monitor(t *testing.T) {
	var stages []string
	monitor := &stageMonitor{record: func(stage string) { stages = append(stages, stage) }}
	s, _ := newTestSession(t, WithMonitor(monitor))

	_, err := s.Search(context.Background(), "horses")
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "keywords", "scoring", "ranking", "finish"}, stages)
}

func TestSession_SearchOptions(t *testing.T) {
	s, provider := newTestSession(t, WithSearchOptions(
		search.WithResultLimit(1),
		search.WithScorerOptions(search.WithCandidateLimit(2)),
	))

	var seen int
	provider.GetMockReranker().RerankFunc = func(_ context.Context, _ core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error) {
		seen = len(candidates)
		return []core.RankedResult{{Code: candidates[0].Code, Score: 50}}, nil
	}

	results, err := s.Search(context.Background(), "animals")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 2, s.CandidateLimit())
}

func TestOpenSession(t *testing.T) {
	provider := func() SessionOption { return WithAIProvider(mock.NewMockProvider()) }

	t.Run("loads tree", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tree.json")
		doc := `{"children":[{"htsno":"01","description":"Live animals","indent":0,"children":[]}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		s, err := OpenSession(path, provider())
		require.NoError(t, err)
		defer s.Close()

		assert.NoError(t, s.TreeError())
		assert.Equal(t, 1, s.Tree().Len())
	})

	t.Run("load failure keeps an empty tree", func(t *testing.T) {
		s, err := OpenSession(filepath.Join(t.TempDir(), "missing.json"), provider())
		require.NoError(t, err)
		defer s.Close()

		assert.ErrorIs(t, s.TreeError(), core.ErrTreeLoad)
		assert.ErrorIs(t, s.LastError(), core.ErrTreeLoad)
		assert.True(t, s.Tree().IsEmpty())
		assert.Empty(t, s.View().Children)
	})

	t.Run("load failure disables search", func(t *testing.T) {
		mp := mock.NewMockProviderWithServices(mock.NewMockKeywordExtractor(), mock.NewMockReranker())
		s, err := OpenSession(filepath.Join(t.TempDir(), "missing.json"), WithAIProvider(mp))
		require.NoError(t, err)
		defer s.Close()

		results, err := s.Search(context.Background(), "horses")
		assert.ErrorIs(t, err, core.ErrTreeLoad)
		assert.Nil(t, results)
		assert.Zero(t, mp.GetMockExtractor().CallCount())
		assert.Zero(t, mp.GetMockReranker().CallCount())
		assert.ErrorIs(t, s.LastError(), core.ErrTreeLoad, "the load error stays visible")
	})
}

func TestSession_Close(t *testing.T) {
	provider := mock.NewMockProviderWithServices(mock.NewMockKeywordExtractor(), mock.NewMockReranker())
	s, err := NewSession(testTree(), WithAIProvider(provider))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, provider.Closed())
}

type stageMonitor struct {
	record func(string)
}

var _ search.SearchMonitor = (*stageMonitor)(nil)

func (m *stageMonitor) Start(string)                           { m.record("start") }
func (m *stageMonitor) AfterKeywordExtraction(core.KeywordSet) { m.record("keywords") }
func (m *stageMonitor) AfterLexicalScoring([]core.Candidate)   { m.record("scoring") }
func (m *stageMonitor) AfterReranking([]core.RankedResult)     { m.record("ranking") }
func (m *stageMonitor) UnmatchedResult(core.RankedResult)      {}
func (m *stageMonitor) Failed(error)                           { m.record("failed") }
func (m *stageMonitor) Finish([]core.RankedResult)             { m.record("finish") }
