package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
)

// DatasetRepository implements storage.DatasetRepository for BadgerDB.
type DatasetRepository struct {
	backend *Backend
}

var _ storage.DatasetRepository = (*DatasetRepository)(nil)

// NewDatasetRepository creates a new DatasetRepository.
func NewDatasetRepository(backend *Backend) *DatasetRepository {
	return &DatasetRepository{backend: backend}
}

// Close releases repository resources.
func (r *DatasetRepository) Close() error {
	return nil
}

// UpsertDataset creates or replaces a dataset registry entry.
func (r *DatasetRepository) UpsertDataset(ctx context.Context, dataset *core.Dataset) error {
	if err := core.ValidateDataset(dataset); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if dataset.IngestedAt.IsZero() {
			dataset.IngestedAt = time.Now().UTC()
		}
		key := makeDatasetKey(dataset.ID)
		value := storage.MarshalDataset(dataset)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDataset retrieves a registry entry by dataset id.
func (r *DatasetRepository) GetDataset(ctx context.Context, id string) (*core.Dataset, error) {
	var dataset *core.Dataset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDatasetKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			dataset, err = storage.UnmarshalDataset(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	if dataset == nil {
		return nil, storage.ErrNotFound
	}
	return dataset, nil
}

// ListDatasets returns all registered datasets ordered by id.
// Ordering follows from the lexicographic key layout.
func (r *DatasetRepository) ListDatasets(ctx context.Context) ([]*core.Dataset, error) {
	var datasets []*core.Dataset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = datasetScanPrefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				dataset, err := storage.UnmarshalDataset(val)
				if err != nil {
					return err
				}
				datasets = append(datasets, dataset)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return datasets, nil
}
