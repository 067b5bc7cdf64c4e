package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/storage"
)

// HistoryRepository implements storage.HistoryRepository on BadgerDB.
// Entries live under their sequence ID; a query index maps the content ID of
// each normalized query to its latest entry.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// AddEntry stores entry and updates the query index.
func (r *HistoryRepository) AddEntry(ctx context.Context, entry *core.HistoryEntry) (*core.HistoryEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		entry.Id = core.ID(nextID)

		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}
		entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Microsecond)

		if err := tx.Set(makeHistoryEntryKey(entry.Id), storage.MarshalHistoryEntry(entry)); err != nil {
			return err
		}
		if err := tx.Set(makeHistoryQueryKey(entry.Query), storage.MarshalID(entry.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("recorded search", "id", entry.Id, "results", len(entry.Results))
	return entry, nil
}

// GetEntry retrieves a single entry by ID.
func (r *HistoryRepository) GetEntry(ctx context.Context, id core.ID) (*core.HistoryEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEntry(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecentEntries retrieves up to limit entries, newest first.
func (r *HistoryRepository) GetRecentEntries(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	if limit < 1 {
		return nil, storage.ErrInvalidQuery
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	results := make([]*core.HistoryEntry, 0, min(limit, 64))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent entries first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(historyEntryPrefix)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the highest possible ID under the prefix
		startKey := makeHistoryEntryKey(core.ID(^uint64(0)))

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *core.HistoryEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalHistoryEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetLatestForQuery follows the query index to the latest entry for query.
func (r *HistoryRepository) GetLatestForQuery(ctx context.Context, query string) (*core.HistoryEntry, error) {
	if core.NormalizeQuery(query) == "" {
		return nil, storage.ErrInvalidQuery
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeHistoryQueryKey(query))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readEntry(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Count returns the number of stored entries.
func (r *HistoryRepository) Count(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(historyEntryPrefix)
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if bytes.HasPrefix(iter.Item().Key(), prefix) {
				count++
			}
		}
		return nil
	}, false)
	return count, err
}

// readEntry reads an entry by ID, returning nil when it doesn't exist.
func (r *HistoryRepository) readEntry(tx *badger.Txn, id core.ID) (*core.HistoryEntry, error) {
	item, err := tx.Get(makeHistoryEntryKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.HistoryEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalHistoryEntry(val)
		return unmarshalErr
	})
	return entry, err
}
