package storage

import (
	"context"

	"github.com/poiesic/htsfinder/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// HistoryRepository records the searches of a session.
type HistoryRepository interface {
	Repository

	// AddEntry stores entry under a new ID from the sequence and points the
	// query index for entry.Query at it. CreatedAt is set when zero.
	// Returns the entry with ID and timestamp populated.
	AddEntry(ctx context.Context, entry *core.HistoryEntry) (*core.HistoryEntry, error)

	// GetEntry retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.HistoryEntry, error)

	// GetRecentEntries retrieves up to limit entries, most recent first.
	GetRecentEntries(ctx context.Context, limit int) ([]*core.HistoryEntry, error)

	// GetLatestForQuery retrieves the most recent entry whose query
	// normalizes to the same text as query.
	// Returns ErrNotFound if the query was never recorded.
	GetLatestForQuery(ctx context.Context, query string) (*core.HistoryEntry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}
