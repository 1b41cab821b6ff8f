package retrieval

import (
	"fmt"

	"github.com/poiesic/trialdex/core"
)

const (
	// DefaultTopK applies when Options.TopK is unset.
	DefaultTopK = 10

	// MaxTopK bounds how many results one query may request.
	MaxTopK = 200

	// overfetchFactor widens the vector-search beam beyond TopK so that
	// candidates removed by structured filters still leave enough survivors.
	overfetchFactor = 4

	// minBeam is the smallest beam ever sent to the vector index.
	minBeam = 20
)

// Options are the structured constraints accompanying a free-text query.
// Absent predicates impose no restriction.
type Options struct {
	// Phase filters by canonical phase code, e.g. "PHASE2" or "PHASE2|PHASE3".
	// Raw variants like "Phase 2" or "ii/iii" are canonicalized first.
	// A stored composite phase matches when the sets intersect; records with
	// an unknown (empty) phase are excluded whenever the filter is set.
	Phase string

	// Disease filters by case-insensitive substring of the disease field.
	Disease string

	// Status filters by case-insensitive substring of the status field.
	Status string

	// MinParticipants keeps records whose participant count is known and at
	// least this value. Records with an unknown count are excluded.
	MinParticipants *int

	// DatasetID restricts results to one dataset.
	DatasetID string

	// TopK caps the result list. Zero means DefaultTopK.
	TopK int
}

// normalized validates opts and returns a copy with defaults applied and the
// phase filter canonicalized. Violations wrap ErrInvalidOption.
func (o Options) normalized() (Options, error) {
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK < 1 || o.TopK > MaxTopK {
		return o, fmt.Errorf("%w: top_k %d outside [1, %d]", ErrInvalidOption, o.TopK, MaxTopK)
	}

	if o.Phase != "" {
		canonical := core.CanonicalPhase(o.Phase)
		if !core.IsKnownPhase(canonical) {
			return o, fmt.Errorf("%w: unknown phase code %q", ErrInvalidOption, o.Phase)
		}
		o.Phase = canonical
	}

	if o.MinParticipants != nil && *o.MinParticipants < 0 {
		return o, fmt.Errorf("%w: min_participants cannot be negative", ErrInvalidOption)
	}

	return o, nil
}

// beam is the over-fetched candidate count requested from the vector index.
func (o Options) beam() int {
	beam := o.TopK * overfetchFactor
	if beam < minBeam {
		beam = minBeam
	}
	return beam
}

// filterSpec projects the options onto the predicate set the evaluator applies.
func (o Options) filterSpec() FilterSpec {
	return FilterSpec{
		Phase:           o.Phase,
		Disease:         o.Disease,
		Status:          o.Status,
		MinParticipants: o.MinParticipants,
		DatasetID:       o.DatasetID,
	}
}

// Result is one ranked search hit with denormalized display fields.
type Result struct {
	DatasetID     string
	TrialID       string
	Score         float32 // cosine similarity in [-1, 1]
	Disease       string
	Phase         string
	NParticipants *int
}
