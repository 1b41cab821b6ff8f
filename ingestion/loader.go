package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
)

const defaultWriteBatch = 256

// Loader ingests CSV files of clinical trial records into the trial store and
// registers the dataset they belong to.
type Loader struct {
	trials     storage.TrialRepository
	datasets   storage.DatasetRepository
	writeBatch int
	logger     *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithWriteBatch sets how many rows are written to the store per batch.
// Default is 256.
func WithWriteBatch(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			return fmt.Errorf("write batch must be positive, got %d", size)
		}
		l.writeBatch = size
		return nil
	}
}

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a new CSV loader.
func NewLoader(
	trials storage.TrialRepository,
	datasets storage.DatasetRepository,
	opts ...LoaderOption,
) (*Loader, error) {
	if trials == nil {
		return nil, ErrTrialRepositoryRequired
	}
	if datasets == nil {
		return nil, ErrDatasetRepositoryRequired
	}

	l := &Loader{
		trials:     trials,
		datasets:   datasets,
		writeBatch: defaultWriteBatch,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// IngestCSV loads a CSV file into the store under datasetID and upserts the
// dataset registry entry. If mapping is nil, columns are auto-mapped from the
// header by alias lookup. Rows whose trial identifier is empty are skipped
// with a warning. Returns the number of ingested rows.
func (l *Loader) IngestCSV(ctx context.Context, path, datasetID, name, notes string, mapping Mapping) (int, error) {
	if name == "" {
		name = datasetID
	}
	dataset := &core.Dataset{
		ID:         datasetID,
		Name:       name,
		SourcePath: path,
		Notes:      notes,
		IngestedAt: time.Now().UTC(),
	}
	if err := core.ValidateDataset(dataset); err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, ErrEmptyHeader
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	if mapping == nil {
		mapping = AutoMapColumns(header)
	}
	indexes := columnIndexes(header, mapping)
	if _, ok := indexes[FieldTrialID]; !ok {
		return 0, ErrNoTrialIDColumn
	}

	l.logger.Info("ingesting csv",
		"path", path,
		"dataset", datasetID,
		"mapped_fields", len(indexes))

	field := func(row []string, canon string) string {
		i, ok := indexes[canon]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	ingested := 0
	skipped := 0
	line := 1
	batch := make([]*core.Trial, 0, l.writeBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.trials.PutTrials(ctx, batch...); err != nil {
			return fmt.Errorf("failed to write trial batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return ingested, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ingested, fmt.Errorf("failed to read csv row %d: %w", line+1, err)
		}
		line++

		trialID := coerceString(field(row, FieldTrialID))
		if trialID == "" {
			skipped++
			l.logger.Warn("skipping row with empty trial id", "row", line)
			continue
		}

		trial := &core.Trial{
			DatasetID:     datasetID,
			TrialID:       trialID,
			Disease:       coerceString(field(row, FieldDisease)),
			Phase:         normalizePhase(field(row, FieldPhase)),
			NParticipants: coerceInt(field(row, FieldNParticipants)),
			Summary:       coerceString(field(row, FieldSummary)),
			OutcomesText:  coerceString(field(row, FieldOutcomesText)),
			Status:        normalizeStatus(field(row, FieldStatus)),
			Sponsor:       coerceString(field(row, FieldSponsor)),
			StartDate:     parseDate(field(row, FieldStartDate)),
			EndDate:       parseDate(field(row, FieldEndDate)),
		}
		if err := core.ValidateTrial(trial); err != nil {
			return ingested, fmt.Errorf("row %d: %w", line, err)
		}

		batch = append(batch, trial)
		ingested++

		if len(batch) >= l.writeBatch {
			if err := flush(); err != nil {
				return ingested - len(batch), err
			}
		}
	}

	if err := flush(); err != nil {
		return ingested - len(batch), err
	}

	dataset.RowCount = ingested
	if err := l.datasets.UpsertDataset(ctx, dataset); err != nil {
		return ingested, fmt.Errorf("failed to register dataset: %w", err)
	}

	l.logger.Info("csv ingestion complete",
		"dataset", datasetID,
		"ingested", ingested,
		"skipped", skipped)

	return ingested, nil
}
