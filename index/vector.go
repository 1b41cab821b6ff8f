package index

import (
	"math"
	"runtime"
	"sort"
)

// Candidate is one vector-search hit: an index slot and its cosine similarity
// to the query, in [-1, 1].
type Candidate struct {
	Slot  int
	Score float32
}

// FlatIndex is an exhaustive inner-product index over fixed-dimension float32
// vectors. Vectors are L2-normalized on insert, so the inner product with a
// normalized query equals cosine similarity.
//
// A FlatIndex is mutable only while a build stages it; once published inside
// a Snapshot it is read-only and safe for concurrent Search calls.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index with a fixed dimension.
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Dim returns the index dimension.
func (x *FlatIndex) Dim() int {
	return x.dim
}

// Len returns the number of stored vectors.
func (x *FlatIndex) Len() int {
	return len(x.vectors)
}

// Add stores a vector at the given slot, growing the index as needed.
// Adding at an occupied slot overwrites it. The vector is copied and
// normalized; a vector of the wrong length is rejected with
// ErrDimensionMismatch and the index is left unchanged.
func (x *FlatIndex) Add(slot int, vector []float32) error {
	if len(vector) != x.dim {
		return ErrDimensionMismatch
	}
	if slot < 0 {
		return ErrUnknownSlot
	}

	for slot >= len(x.vectors) {
		x.vectors = append(x.vectors, nil)
	}
	x.vectors[slot] = normalize(vector)
	return nil
}

// Search returns up to k candidates ordered by descending similarity.
// Equal scores are broken by ascending slot for determinism. An empty index
// returns an empty result, not an error.
func (x *FlatIndex) Search(query []float32, k int) ([]Candidate, error) {
	if len(query) != x.dim {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}

	q := normalize(query)
	scores := make([]float32, len(x.vectors))

	// Partition the scan across CPUs; each worker owns a disjoint slot range.
	workers := runtime.NumCPU()
	if workers > len(x.vectors) {
		workers = len(x.vectors)
	}
	chunk := (len(x.vectors) + workers - 1) / workers

	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(x.vectors) {
			end = len(x.vectors)
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				if x.vectors[i] == nil {
					continue
				}
				scores[i] = dot(q, x.vectors[i])
			}
			done <- struct{}{}
		}(start, end)
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	candidates := make([]Candidate, 0, len(x.vectors))
	for slot := range x.vectors {
		if x.vectors[slot] == nil {
			continue
		}
		candidates = append(candidates, Candidate{Slot: slot, Score: scores[slot]})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Slot < candidates[j].Slot
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// vectorAt returns the stored (normalized) vector for a slot, or nil.
// Used by persistence and by incremental builds carrying vectors over.
func (x *FlatIndex) vectorAt(slot int) []float32 {
	if slot < 0 || slot >= len(x.vectors) {
		return nil
	}
	return x.vectors[slot]
}

// normalize returns a unit-length copy of v. A zero vector is returned as a
// plain copy; its similarity to everything is then 0.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
