package storage

import (
	"context"

	"github.com/poiesic/trialdex/core"
)

// TrialRepository provides operations for managing canonical trial records.
// Implementations must be thread-safe and support concurrent access.
type TrialRepository interface {
	// PutTrials upserts one or more trial records.
	// Sets IngestedAt if not already set. Records are validated before write.
	PutTrials(ctx context.Context, trials ...*core.Trial) error

	// GetTrial retrieves a single trial by its composite key.
	// Returns ErrNotFound if the trial doesn't exist.
	GetTrial(ctx context.Context, key core.TrialKey) (*core.Trial, error)

	// GetTrials retrieves multiple trials in one batched lookup.
	// Missing keys are silently omitted from the result (no error).
	GetTrials(ctx context.Context, keys ...core.TrialKey) (map[core.TrialKey]*core.Trial, error)

	// StreamTrials iterates trials in a stable, deterministic order grouped
	// by dataset, optionally scoped to one dataset when datasetID is
	// non-empty.
	// Iteration stops early when fn returns an error, which is returned as-is.
	StreamTrials(ctx context.Context, datasetID string, fn func(*core.Trial) error) error

	// CountTrials returns the number of stored trials, optionally scoped to
	// one dataset when datasetID is non-empty.
	CountTrials(ctx context.Context, datasetID string) (int, error)

	// DeleteDataset removes every trial belonging to a dataset.
	// Returns the number of deleted records.
	DeleteDataset(ctx context.Context, datasetID string) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// DatasetRepository provides operations for the dataset registry.
type DatasetRepository interface {
	// UpsertDataset creates or replaces a dataset registry entry.
	UpsertDataset(ctx context.Context, dataset *core.Dataset) error

	// GetDataset retrieves a registry entry by dataset id.
	// Returns ErrNotFound if the dataset isn't registered.
	GetDataset(ctx context.Context, id string) (*core.Dataset, error)

	// ListDatasets returns all registered datasets ordered by id.
	ListDatasets(ctx context.Context) ([]*core.Dataset, error)

	// Close closes the repository and releases resources.
	Close() error
}
