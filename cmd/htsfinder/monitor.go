package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/search"
)

// stageTimer reports how long each search stage took.
type stageTimer struct {
	writer    io.Writer
	mu        sync.Mutex
	startTime time.Time
	lastMark  time.Time
	now       func() time.Time
}

var _ search.SearchMonitor = (*stageTimer)(nil)

// newStageTimer creates a stage timer writing to writer (typically os.Stderr).
func newStageTimer(writer io.Writer) *stageTimer {
	return &stageTimer{
		writer: writer,
		now:    time.Now,
	}
}

func (t *stageTimer) Start(query string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = t.now()
	t.lastMark = t.startTime
	fmt.Fprintf(t.writer, "searching for %q\n", query)
}

func (t *stageTimer) AfterKeywordExtraction(keywords core.KeywordSet) {
	t.report("keywords", fmt.Sprintf("object=%v context=%v", keywords.ObjectKeywords, keywords.ContextKeywords))
}

func (t *stageTimer) AfterLexicalScoring(candidates []core.Candidate) {
	t.report("scoring", fmt.Sprintf("%d candidates", len(candidates)))
}

func (t *stageTimer) AfterReranking(results []core.RankedResult) {
	t.report("ranking", fmt.Sprintf("%d results", len(results)))
}

func (t *stageTimer) UnmatchedResult(result core.RankedResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "  note: %s is not among the candidates\n", result.Code)
}

func (t *stageTimer) Failed(err error) {
	t.report("failed", err.Error())
}

func (t *stageTimer) Finish(results []core.RankedResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "  done: %d results in %s\n", len(results), formatElapsed(t.now().Sub(t.startTime)))
}

// report prints one stage line with the time since the previous mark.
func (t *stageTimer) report(stage, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	fmt.Fprintf(t.writer, "  %-8s %8s  %s\n", stage, formatElapsed(now.Sub(t.lastMark)), detail)
	t.lastMark = now
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
}
