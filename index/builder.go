package index

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/trialdex/ai"
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
)

const (
	// defaultDimension is used for the metadata of an empty build, when no
	// vector ever reaches the index to reveal the model's true dimension.
	defaultDimension = 384

	defaultBatchSize = 64
)

// Builder drives (re)construction of the vector index and identity map from
// the current contents of the trial store.
//
// Builds are mutually exclusive with each other but never block queries: all
// work happens in a staging snapshot that replaces the active one with a
// single atomic swap. A failed build discards its staging state entirely and
// leaves the previous snapshot serving.
type Builder struct {
	trials    storage.TrialRepository
	provider  ai.Provider
	handle    *Handle
	location  string
	poolSize  int
	batchSize int
	logger    *slog.Logger

	mu sync.Mutex
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithLocation sets the storage location for persisted snapshots.
// When empty, snapshots live only in memory.
func WithLocation(path string) BuilderOption {
	return func(b *Builder) error {
		b.location = path
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BuilderOption {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
		return nil
	}
}

// WithBatchSize sets how many trial texts are embedded per provider call.
func WithBatchSize(size int) BuilderOption {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithBuilderLogger sets a custom logger.
// Default is slog.Default().
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new index builder publishing into handle.
func NewBuilder(trials storage.TrialRepository, provider ai.Provider, handle *Handle, opts ...BuilderOption) (*Builder, error) {
	if trials == nil {
		return nil, ErrTrialRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if handle == nil {
		return nil, ErrHandleRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	b := &Builder{
		trials:    trials,
		provider:  provider,
		handle:    handle,
		poolSize:  poolSize,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build streams trials from the store in its stable, dataset-grouped key
// order, embeds their text, and installs a fresh snapshot.
//
// With an empty datasetScope the whole index is rebuilt. With a scope, only
// that dataset's entries are re-embedded; entries belonging to other datasets
// carry over without touching the embedding service. Scoped builds reject an
// embedding model different from the active snapshot's, since scores across
// models are not comparable.
func (b *Builder) Build(ctx context.Context, datasetScope string) (Metadata, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	started := time.Now().UTC()
	model := b.provider.EmbeddingModel()
	current := b.handle.Current()

	if datasetScope != "" && current != nil && current.meta.EmbeddingModel != model {
		return Metadata{}, ErrModelMismatch
	}

	// Collect the scoped records in stream order; slot assignment later
	// follows this order exactly, which keeps repeated builds reproducible.
	var (
		keys  []core.TrialKey
		texts []string
	)
	err := b.trials.StreamTrials(ctx, datasetScope, func(trial *core.Trial) error {
		keys = append(keys, trial.Key())
		texts = append(texts, trial.EmbeddingText())
		return nil
	})
	if err != nil {
		return Metadata{}, err
	}

	vectors, err := b.embedAll(ctx, texts)
	if err != nil {
		return Metadata{}, err
	}

	dim := b.stagingDimension(current, datasetScope, vectors)

	staging := NewFlatIndex(dim)
	ids := NewIdentityMap()

	// Carried-over entries first, in their existing slot order.
	if datasetScope != "" && current != nil {
		for slot, key := range current.ids.Keys() {
			if key.DatasetID == datasetScope {
				continue
			}
			newSlot, err := ids.Assign(key)
			if err != nil {
				return Metadata{}, err
			}
			if err := staging.Add(newSlot, current.index.vectorAt(slot)); err != nil {
				return Metadata{}, err
			}
		}
	}

	for i, key := range keys {
		slot, err := ids.Assign(key)
		if err != nil {
			return Metadata{}, err
		}
		if err := staging.Add(slot, vectors[i]); err != nil {
			return Metadata{}, err
		}
	}

	if ids.Len() != staging.Len() {
		return Metadata{}, ErrCorruptSnapshot
	}

	meta := Metadata{
		Dimension:      dim,
		ItemCount:      staging.Len(),
		BuiltAt:        started,
		Location:       b.location,
		EmbeddingModel: model,
	}
	snapshot := newSnapshot(staging, ids, meta)

	if b.location != "" {
		if err := Save(b.location, snapshot); err != nil {
			return Metadata{}, err
		}
	}

	b.handle.swap(snapshot)
	b.logger.Info("vector index built",
		"scope", datasetScope,
		"dimension", meta.Dimension,
		"items", meta.ItemCount,
		"elapsed", time.Since(started))
	return meta, nil
}

// embedAll runs batched embedding across the worker pool, preserving input
// order. The first failure wins; remaining batches still drain but their
// results are discarded with the staging state.
func (b *Builder) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ctx.Err()
	}

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	embedder := b.provider.Embedder()
	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			batch, err := embedder.EmbedTexts(ctx, texts[start:end])
			if err != nil {
				fail(err)
				return
			}
			if len(batch) != end-start {
				fail(ErrCorruptSnapshot)
				return
			}
			copy(vectors[start:end], batch)
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, ctx.Err()
}

// stagingDimension picks the dimension for a staging index: the active
// snapshot's for scoped builds, the first embedded vector's otherwise, and a
// documented default when the build is empty.
func (b *Builder) stagingDimension(current *Snapshot, datasetScope string, vectors [][]float32) int {
	if datasetScope != "" && current != nil {
		return current.index.Dim()
	}
	if len(vectors) > 0 {
		return len(vectors[0])
	}
	return defaultDimension
}
