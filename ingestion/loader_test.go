package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trials.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestIngestCSVAutoMapped(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	csv := `NCT Number,Conditions,Phases,Enrollment,Brief Summary,Overall_Status,Study Start
NCT00000001,Breast Cancer,Phase 2,200,A targeted therapy study,RECRUITING,"Jan 15, 2020"
NCT00000002,Melanoma,ii/iii,"1,250",An immunotherapy study,completed,2021-03-01
NCT00000003,Heart Failure,N/A,,An observational study,recruiting,
`
	path := writeCSV(t, csv)

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	ctx := context.Background()
	count, err := loader.IngestCSV(ctx, path, "oncology", "Oncology Trials", "initial import", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	first, err := trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: "oncology", TrialID: "NCT00000001"})
	require.NoError(t, err)
	assert.Equal(t, "Breast Cancer", first.Disease)
	assert.Equal(t, "PHASE2", first.Phase)
	require.NotNil(t, first.NParticipants)
	assert.Equal(t, 200, *first.NParticipants)
	assert.Equal(t, "A targeted therapy study", first.Summary)
	assert.Equal(t, "Recruiting", first.Status)
	assert.Equal(t, "2020-01-15", first.StartDate)

	second, err := trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: "oncology", TrialID: "NCT00000002"})
	require.NoError(t, err)
	assert.Equal(t, "PHASE2|PHASE3", second.Phase)
	require.NotNil(t, second.NParticipants)
	assert.Equal(t, 1250, *second.NParticipants)
	assert.Equal(t, "2021-03-01", second.StartDate)

	third, err := trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: "oncology", TrialID: "NCT00000003"})
	require.NoError(t, err)
	assert.Equal(t, "NOT_APPLICABLE", third.Phase)
	assert.Nil(t, third.NParticipants, "empty enrollment stays unknown")
	assert.Equal(t, "", third.StartDate)

	dataset, err := datasetRepo.GetDataset(ctx, "oncology")
	require.NoError(t, err)
	assert.Equal(t, "Oncology Trials", dataset.Name)
	assert.Equal(t, path, dataset.SourcePath)
	assert.Equal(t, 3, dataset.RowCount)
	assert.Equal(t, "initial import", dataset.Notes)
	assert.False(t, dataset.IngestedAt.IsZero())
}

func TestIngestCSVExplicitMapping(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	csv := `registry_number,illness,stage
NCT00000001,Asthma,Phase 1
`
	path := writeCSV(t, csv)

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	ctx := context.Background()
	count, err := loader.IngestCSV(ctx, path, "resp", "", "", Mapping{
		FieldTrialID: "registry_number",
		FieldDisease: "illness",
		FieldPhase:   "stage",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	trial, err := trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: "resp", TrialID: "NCT00000001"})
	require.NoError(t, err)
	assert.Equal(t, "Asthma", trial.Disease)
	assert.Equal(t, "PHASE1", trial.Phase)

	// Name defaults to the dataset id
	dataset, err := datasetRepo.GetDataset(ctx, "resp")
	require.NoError(t, err)
	assert.Equal(t, "resp", dataset.Name)
}

func TestIngestCSVSkipsRowsWithoutID(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	csv := `trial_id,disease
NCT00000001,Asthma
,Missing ID
NCT00000002,Eczema
`
	path := writeCSV(t, csv)

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	ctx := context.Background()
	count, err := loader.IngestCSV(ctx, path, "derm", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := trialRepo.CountTrials(ctx, "derm")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestIngestCSVNoTrialIDColumn(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	path := writeCSV(t, "illness,stage\nAsthma,Phase 1\n")

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	_, err = loader.IngestCSV(context.Background(), path, "resp", "", "", nil)
	assert.ErrorIs(t, err, ErrNoTrialIDColumn)
}

func TestIngestCSVEmptyFile(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	path := writeCSV(t, "")

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	_, err = loader.IngestCSV(context.Background(), path, "resp", "", "", nil)
	assert.ErrorIs(t, err, ErrEmptyHeader)
}

func TestIngestCSVInvalidDatasetID(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	path := writeCSV(t, "trial_id\nNCT00000001\n")

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	_, err = loader.IngestCSV(context.Background(), path, "bad:id", "", "", nil)
	assert.ErrorIs(t, err, core.ErrInvalidDataset)
}

func TestIngestCSVReingestReplacesRowCount(t *testing.T) {
	trialRepo, datasetRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		datasetRepo.Close()
		trialRepo.Close()
		backend.Close()
	}()

	loader, err := NewLoader(trialRepo, datasetRepo)
	require.NoError(t, err)

	ctx := context.Background()
	first := writeCSV(t, "trial_id,disease\nNCT00000001,Asthma\n")
	_, err = loader.IngestCSV(ctx, first, "resp", "", "", nil)
	require.NoError(t, err)

	second := writeCSV(t, "trial_id,disease\nNCT00000001,Asthma\nNCT00000002,Eczema\n")
	count, err := loader.IngestCSV(ctx, second, "resp", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	dataset, err := datasetRepo.GetDataset(ctx, "resp")
	require.NoError(t, err)
	assert.Equal(t, 2, dataset.RowCount)
}
