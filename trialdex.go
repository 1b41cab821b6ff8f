// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trialdex

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/trialdex/ai"
	"github.com/poiesic/trialdex/ai/openai"
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/index"
	"github.com/poiesic/trialdex/ingestion"
	"github.com/poiesic/trialdex/retrieval"
	"github.com/poiesic/trialdex/storage"
	"github.com/poiesic/trialdex/storage/badger"
)

// Engine ties the trial store, the vector index, and the embedding provider
// into one facade covering ingestion, index builds, and hybrid search.
type Engine struct {
	backend     *badger.Backend
	trialRepo   storage.TrialRepository
	datasetRepo storage.DatasetRepository
	provider    ai.Provider
	handle      *index.Handle
	builder     *index.Builder
	searcher    *retrieval.Searcher
	loader      *ingestion.Loader
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	indexPath string
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built embedding provider, bypassing aiConfig.
// The engine takes ownership and closes it on Close.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithIndexPath enables snapshot persistence at the given file path. The
// snapshot is loaded on startup when present and rewritten after each build.
func WithIndexPath(path string) EngineOption {
	return func(o *engineOptions) {
		o.indexPath = path
	}
}

// NewEngine opens the trial store at filePath and wires up the retrieval
// pipeline around it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	trialRepo := badger.NewTrialRepository(backend)
	datasetRepo := badger.NewDatasetRepository(backend)

	// Create embedding provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	// Restore the persisted index snapshot when one exists
	handle := index.NewHandle()
	if options.indexPath != "" {
		snapshot, err := index.Load(options.indexPath)
		if err != nil {
			provider.Close()
			backend.Close()
			return nil, err
		}
		if snapshot != nil {
			handle.Restore(snapshot)
		}
	}

	builderOpts := []index.BuilderOption{}
	if options.indexPath != "" {
		builderOpts = append(builderOpts, index.WithLocation(options.indexPath))
	}
	builder, err := index.NewBuilder(trialRepo, provider, handle, builderOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := retrieval.NewSearcher(handle, trialRepo, provider)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	loader, err := ingestion.NewLoader(trialRepo, datasetRepo)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:     backend,
		trialRepo:   trialRepo,
		datasetRepo: datasetRepo,
		provider:    provider,
		handle:      handle,
		builder:     builder,
		searcher:    searcher,
		loader:      loader,
		logger:      slog.Default(),
	}, nil
}

func (e *Engine) Close() error {
	// Close embedding provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing embedding provider", "err", err)
	}

	// Close repositories
	if err := e.trialRepo.Close(); err != nil {
		e.logger.Error("error closing trial repository", "err", err)
		return err
	}
	if err := e.datasetRepo.Close(); err != nil {
		e.logger.Error("error closing dataset repository", "err", err)
		return err
	}

	// Close backend
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// IngestCSV loads a CSV file into the store under datasetID and registers the
// dataset. Returns the number of ingested rows. The vector index is not
// touched; call BuildIndex afterwards to make the new records searchable.
func (e *Engine) IngestCSV(ctx context.Context, path, datasetID, name, notes string, mapping ingestion.Mapping) (int, error) {
	return e.loader.IngestCSV(ctx, path, datasetID, name, notes, mapping)
}

// BuildIndex rebuilds the vector index and atomically swaps it in. An empty
// datasetScope rebuilds from every stored trial; a non-empty scope re-embeds
// only that dataset and carries the rest over from the current snapshot.
func (e *Engine) BuildIndex(ctx context.Context, datasetScope string) (index.Metadata, error) {
	return e.builder.Build(ctx, datasetScope)
}

// SearchTrials runs a hybrid query over the current index snapshot.
func (e *Engine) SearchTrials(ctx context.Context, query string, opts retrieval.Options) ([]*retrieval.Result, error) {
	return e.searcher.Search(ctx, query, opts)
}

// GetTrial fetches one trial record. When datasetID is empty, registered
// datasets are scanned in registry order and the first match wins. Returns
// storage.ErrNotFound when no dataset holds the trial.
func (e *Engine) GetTrial(ctx context.Context, datasetID, trialID string) (*core.Trial, error) {
	if datasetID != "" {
		return e.trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: datasetID, TrialID: trialID})
	}

	datasets, err := e.datasetRepo.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	for _, dataset := range datasets {
		trial, err := e.trialRepo.GetTrial(ctx, core.TrialKey{DatasetID: dataset.ID, TrialID: trialID})
		if err == nil {
			return trial, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}
	return nil, storage.ErrNotFound
}

// ListDatasets returns all registered datasets ordered by id.
func (e *Engine) ListDatasets(ctx context.Context) ([]*core.Dataset, error) {
	return e.datasetRepo.ListDatasets(ctx)
}

// IndexMetadata reports the current snapshot's metadata. The second return
// is false when no index has been built or restored yet.
func (e *Engine) IndexMetadata() (index.Metadata, bool) {
	snapshot := e.handle.Current()
	if snapshot == nil {
		return index.Metadata{}, false
	}
	return snapshot.Metadata(), true
}

// TrialRepository exposes the underlying trial store for direct access.
func (e *Engine) TrialRepository() storage.TrialRepository {
	return e.trialRepo
}

// DatasetRepository exposes the underlying dataset registry for direct access.
func (e *Engine) DatasetRepository() storage.DatasetRepository {
	return e.datasetRepo
}
