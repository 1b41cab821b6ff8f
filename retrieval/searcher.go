package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/trialdex/ai"
	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/index"
	"github.com/poiesic/trialdex/storage"
)

// Searcher answers hybrid queries: vector similarity over trial embeddings
// combined with structured predicates on trial fields.
type Searcher struct {
	handle    *index.Handle
	trials    storage.TrialRepository
	embedder  ai.Embedder
	evaluator *Evaluator
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	handle *index.Handle,
	trials storage.TrialRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if handle == nil {
		return nil, ErrHandleRequired
	}
	if trials == nil {
		return nil, ErrTrialRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		handle:   handle,
		trials:   trials,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	evaluator, err := NewEvaluator(trials, s.logger)
	if err != nil {
		return nil, err
	}
	s.evaluator = evaluator

	return s, nil
}

// Search runs a hybrid query and returns up to opts.TopK results ranked by
// similarity to the query text.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) ([]*Result, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs a hybrid query with monitoring. The monitor receives
// callbacks after each stage of the pipeline.
//
// The pipeline is: embed the query, over-fetch candidates from the vector
// index, resolve candidate slots to trial keys, apply structured filters in
// one batched pass, truncate to TopK, then attach display fields.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) ([]*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	norm, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	snapshot := s.handle.Current()
	if snapshot == nil {
		return nil, index.ErrIndexNotBuilt
	}

	monitor.Start(query, norm)

	if snapshot.Index().Len() == 0 {
		monitor.Finish(nil)
		return []*Result{}, nil
	}

	// 1. Embed the query
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	// 2. Over-fetch from the vector index so structured filters still
	// leave enough survivors to fill TopK.
	beam := norm.beam()
	if beam > snapshot.Index().Len() {
		beam = snapshot.Index().Len()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates, err := snapshot.Index().Search(embedding, beam)
	if err != nil {
		s.logger.Error("error searching vector index", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(candidates)

	// 3. Resolve slots to trial keys, preserving rank order
	keys := make([]core.TrialKey, 0, len(candidates))
	scores := make(map[core.TrialKey]float32, len(candidates))
	for _, candidate := range candidates {
		key, err := snapshot.IDs().Resolve(candidate.Slot)
		if err != nil {
			s.logger.Warn("dropping unresolvable candidate slot", "slot", candidate.Slot)
			continue
		}
		keys = append(keys, key)
		scores[key] = candidate.Score
	}
	monitor.AfterResolve(keys)

	// 4. Apply structured predicates in one batched pass
	spec := norm.filterSpec()
	survivors := keys
	if !spec.Empty() {
		survivors, err = s.evaluator.Apply(ctx, keys, spec)
		if err != nil {
			s.logger.Error("error applying structured filters", "err", err)
			return nil, err
		}
	}
	monitor.AfterFilter(survivors)

	// 5. Truncate to TopK and attach display fields
	if len(survivors) > norm.TopK {
		survivors = survivors[:norm.TopK]
	}
	if len(survivors) == 0 {
		monitor.Finish(nil)
		return []*Result{}, nil
	}

	trials, err := s.trials.GetTrials(ctx, survivors...)
	if err != nil {
		s.logger.Error("error loading result trials", "err", err)
		return nil, err
	}

	results := make([]*Result, 0, len(survivors))
	for _, key := range survivors {
		trial, ok := trials[key]
		if !ok {
			s.logger.Warn("trial disappeared between filter and lookup", "key", key.String())
			continue
		}
		results = append(results, &Result{
			DatasetID:     trial.DatasetID,
			TrialID:       trial.TrialID,
			Score:         scores[key],
			Disease:       trial.Disease,
			Phase:         trial.Phase,
			NParticipants: trial.NParticipants,
		})
	}

	monitor.Finish(results)
	return results, nil
}
