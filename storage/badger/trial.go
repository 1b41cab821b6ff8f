package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
)

// TrialRepository implements storage.TrialRepository for BadgerDB.
type TrialRepository struct {
	backend *Backend
}

var _ storage.TrialRepository = (*TrialRepository)(nil)

// NewTrialRepository creates a new TrialRepository.
func NewTrialRepository(backend *Backend) *TrialRepository {
	return &TrialRepository{backend: backend}
}

// Close releases repository resources.
func (r *TrialRepository) Close() error {
	return nil
}

// PutTrials upserts one or more trial records.
func (r *TrialRepository) PutTrials(ctx context.Context, trials ...*core.Trial) error {
	for _, trial := range trials {
		if err := core.ValidateTrial(trial); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, trial := range trials {
			if err := ctx.Err(); err != nil {
				return err
			}
			if trial.IngestedAt.IsZero() {
				trial.IngestedAt = time.Now().UTC()
			}

			key := makeTrialKey(trial.Key())
			value := storage.MarshalTrial(trial)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetTrial retrieves a single trial by its composite key.
func (r *TrialRepository) GetTrial(ctx context.Context, key core.TrialKey) (*core.Trial, error) {
	var trial *core.Trial
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		trial, err = r.readTrial(tx, makeTrialKey(key))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if trial == nil {
		return nil, storage.ErrNotFound
	}
	return trial, nil
}

// GetTrials retrieves multiple trials in one batched lookup.
// Missing keys are silently omitted.
func (r *TrialRepository) GetTrials(ctx context.Context, keys ...core.TrialKey) (map[core.TrialKey]*core.Trial, error) {
	found := make(map[core.TrialKey]*core.Trial, len(keys))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			trial, err := r.readTrial(tx, makeTrialKey(key))
			if err != nil {
				return err
			}
			if trial != nil {
				found[key] = trial
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// StreamTrials iterates trials in stable key order, grouped by dataset.
func (r *TrialRepository) StreamTrials(ctx context.Context, datasetID string, fn func(*core.Trial) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTrialScanPrefix(datasetID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var trial *core.Trial
			err := iter.Item().Value(func(val []byte) error {
				var err error
				trial, err = storage.UnmarshalTrial(val)
				return err
			})
			if err != nil {
				return err
			}

			if err := fn(trial); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// CountTrials returns the number of stored trials in scope.
func (r *TrialRepository) CountTrials(ctx context.Context, datasetID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTrialScanPrefix(datasetID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteDataset removes every trial belonging to a dataset.
func (r *TrialRepository) DeleteDataset(ctx context.Context, datasetID string) (int, error) {
	if datasetID == "" {
		return 0, core.ErrEmptyDatasetID
	}

	// Collect keys first; badger forbids deleting under an open iterator.
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTrialScanPrefix(datasetID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// readTrial reads and decodes one trial, returning nil when the key is absent.
func (r *TrialRepository) readTrial(tx *badger.Txn, key []byte) (*core.Trial, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var trial *core.Trial
	err = item.Value(func(val []byte) error {
		var err error
		trial, err = storage.UnmarshalTrial(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return trial, nil
}
