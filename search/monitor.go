package search

import (
	"github.com/poiesic/htsfinder/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordExtraction(keywords core.KeywordSet)
	AfterLexicalScoring(candidates []core.Candidate)
	AfterReranking(ranked []core.RankedResult)
	UnmatchedResult(result core.RankedResult)
	Failed(err error)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterKeywordExtraction(_ core.KeywordSet) {}
func (n *noopMonitor) AfterLexicalScoring(_ []core.Candidate)   {}
func (n *noopMonitor) AfterReranking(_ []core.RankedResult)     {}
func (n *noopMonitor) UnmatchedResult(_ core.RankedResult)      {}
func (n *noopMonitor) Failed(_ error)                           {}
func (n *noopMonitor) Finish(_ []core.RankedResult)             {}
