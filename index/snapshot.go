package index

import (
	"sync/atomic"
	"time"
)

// Metadata describes one successful build. It is replaced atomically with
// the snapshot it describes and is read-only to consumers.
type Metadata struct {
	Dimension      int
	ItemCount      int
	BuiltAt        time.Time
	Location       string
	EmbeddingModel string
}

// Snapshot is one complete, immutable (vector index, identity map) pair
// produced by a single build. Queries borrow a snapshot and observe it
// consistently even while a new one is being staged.
type Snapshot struct {
	index *FlatIndex
	ids   *IdentityMap
	meta  Metadata
}

// newSnapshot pairs a staged index and map under one metadata record.
func newSnapshot(idx *FlatIndex, ids *IdentityMap, meta Metadata) *Snapshot {
	return &Snapshot{index: idx, ids: ids, meta: meta}
}

// Index returns the snapshot's vector index.
func (s *Snapshot) Index() *FlatIndex {
	return s.index
}

// IDs returns the snapshot's identity map.
func (s *Snapshot) IDs() *IdentityMap {
	return s.ids
}

// Metadata returns the snapshot's build statistics.
func (s *Snapshot) Metadata() Metadata {
	return s.meta
}

// Handle is the shared indirection pointer to the active snapshot.
// Readers call Current once per query and keep using that snapshot; the
// Builder publishes a fully staged replacement with a single atomic swap, so
// in-flight queries see either the old or the new pair, never a mix.
type Handle struct {
	ptr atomic.Pointer[Snapshot]
}

// NewHandle creates a handle with no active snapshot.
func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the active snapshot, or nil before the first build.
func (h *Handle) Current() *Snapshot {
	return h.ptr.Load()
}

// swap installs a new snapshot. Only the Builder calls this.
func (h *Handle) swap(s *Snapshot) {
	h.ptr.Store(s)
}

// Restore installs a snapshot loaded from disk, e.g. at process start.
// It must not be used while a build is running.
func (h *Handle) Restore(s *Snapshot) {
	h.ptr.Store(s)
}
