package core

import (
	"fmt"
	"math"
)

// ValidateRankedResult validates a RankedResult returned by a reranker.
//
// Validation rules:
//   - Code must not be empty
//   - Score must be a finite number between 0 and 100
//
// NOT validated:
//   - Description and Explanation (advisory display text)
//   - FullDescription (filled in by the merger)
func ValidateRankedResult(result *RankedResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidRankedResult)
	}

	if result.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRankedResult, ErrEmptyCode)
	}

	if !IsValidScore(result.Score) {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidRankedResult, ErrInvalidScore, result.Score)
	}

	return nil
}

// IsValidScore checks if a score lies within 0..100.
func IsValidScore(score float64) bool {
	return !math.IsNaN(score) && score >= 0 && score <= 100
}
