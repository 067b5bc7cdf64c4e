package search

import (
	"log/slog"

	"github.com/poiesic/htsfinder/core"
)

// Merge attaches to each ranked result the full description of the candidate
// with the same code and keeps the first n results (all when n < 1). A result
// whose code is not among the candidates falls back to its own description.
// The order of ranked is preserved.
func Merge(ranked []core.RankedResult, candidates []core.Candidate, n int) []core.RankedResult {
	return merge(ranked, candidates, n, slog.Default(), nil)
}

func merge(ranked []core.RankedResult, candidates []core.Candidate, n int, logger *slog.Logger, monitor SearchMonitor) []core.RankedResult {
	full := make(map[string]string, len(candidates))
	for _, c := range candidates {
		if _, ok := full[c.Code]; !ok {
			full[c.Code] = c.FullDescription
		}
	}

	if n < 1 || n > len(ranked) {
		n = len(ranked)
	}
	results := make([]core.RankedResult, 0, n)
	for _, r := range ranked[:n] {
		if fd, ok := full[r.Code]; ok {
			r.FullDescription = fd
		} else {
			logger.Warn("ranked code not among candidates", "code", r.Code)
			if monitor != nil {
				monitor.UnmatchedResult(r)
			}
			r.FullDescription = r.Description
		}
		results = append(results, r)
	}
	return results
}
