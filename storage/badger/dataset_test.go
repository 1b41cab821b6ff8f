package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGetDataset(t *testing.T) {
	trialRepo, datasetRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	dataset := &core.Dataset{
		ID:         "oncology",
		Name:       "Oncology Trials",
		SourcePath: "/data/oncology.csv",
		RowCount:   42,
		IngestedAt: time.Now().UTC(),
	}
	require.NoError(t, datasetRepo.UpsertDataset(ctx, dataset))

	got, err := datasetRepo.GetDataset(ctx, "oncology")
	require.NoError(t, err)
	assert.Equal(t, "Oncology Trials", got.Name)
	assert.Equal(t, 42, got.RowCount)
}

func TestGetDatasetNotFound(t *testing.T) {
	trialRepo, datasetRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	_, err = datasetRepo.GetDataset(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListDatasetsOrdered(t *testing.T) {
	trialRepo, datasetRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	for _, id := range []string{"oncology", "cardio", "neuro"} {
		require.NoError(t, datasetRepo.UpsertDataset(ctx, &core.Dataset{ID: id, Name: id}))
	}

	datasets, err := datasetRepo.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 3)
	assert.Equal(t, "cardio", datasets[0].ID)
	assert.Equal(t, "neuro", datasets[1].ID)
	assert.Equal(t, "oncology", datasets[2].ID)
}

func TestUpsertReplacesDataset(t *testing.T) {
	trialRepo, datasetRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	require.NoError(t, datasetRepo.UpsertDataset(ctx, &core.Dataset{ID: "oncology", Name: "v1", RowCount: 10}))
	require.NoError(t, datasetRepo.UpsertDataset(ctx, &core.Dataset{ID: "oncology", Name: "v2", RowCount: 25}))

	got, err := datasetRepo.GetDataset(ctx, "oncology")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Equal(t, 25, got.RowCount)
}
