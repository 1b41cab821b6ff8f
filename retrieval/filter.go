package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/trialdex/core"
	"github.com/poiesic/trialdex/storage"
)

// FilterSpec is the typed predicate set evaluated against the trial store.
// Absent (zero) predicates impose no restriction.
type FilterSpec struct {
	Phase           string
	Disease         string
	Status          string
	MinParticipants *int
	DatasetID       string
}

// Empty reports whether no predicate is set.
func (f FilterSpec) Empty() bool {
	return f.Phase == "" && f.Disease == "" && f.Status == "" &&
		f.MinParticipants == nil && f.DatasetID == ""
}

// Evaluator applies structured predicates to candidate sets.
//
// Evaluation is a pure filter: candidate order is preserved and never
// re-scored, since ranking belongs to the vector index. Attributes come from
// one batched store lookup per call, never a full scan.
type Evaluator struct {
	trials storage.TrialRepository
	logger *slog.Logger
}

// NewEvaluator creates a filter evaluator backed by the trial store.
func NewEvaluator(trials storage.TrialRepository, logger *slog.Logger) (*Evaluator, error) {
	if trials == nil {
		return nil, ErrTrialRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{trials: trials, logger: logger}, nil
}

// Apply returns the subset of candidates satisfying every set predicate, in
// the candidates' original order. Candidates absent from the store are
// dropped (logged, never fatal).
func (e *Evaluator) Apply(ctx context.Context, candidates []core.TrialKey, spec FilterSpec) ([]core.TrialKey, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	found, err := e.trials.GetTrials(ctx, candidates...)
	if err != nil {
		return nil, err
	}

	kept := make([]core.TrialKey, 0, len(candidates))
	for _, key := range candidates {
		trial, ok := found[key]
		if !ok {
			e.logger.Warn("candidate missing from trial store", "key", key.String())
			continue
		}
		if matches(trial, spec) {
			kept = append(kept, key)
		}
	}
	return kept, nil
}

// matches evaluates all set predicates against one record.
func matches(t *core.Trial, spec FilterSpec) bool {
	if spec.DatasetID != "" && t.DatasetID != spec.DatasetID {
		return false
	}
	if spec.Phase != "" && !core.PhaseMatches(t.Phase, spec.Phase) {
		return false
	}
	if spec.Disease != "" && !containsFold(t.Disease, spec.Disease) {
		return false
	}
	if spec.Status != "" && !containsFold(t.Status, spec.Status) {
		return false
	}
	if spec.MinParticipants != nil {
		if t.NParticipants == nil || *t.NParticipants < *spec.MinParticipants {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
