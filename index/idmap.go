package index

import "github.com/poiesic/trialdex/core"

// IdentityMap is the bidirectional mapping between vector slots and canonical
// trial keys. It is staged alongside a FlatIndex during a build and becomes
// immutable once published inside a Snapshot.
type IdentityMap struct {
	slots []core.TrialKey
	byKey map[core.TrialKey]int
}

// NewIdentityMap creates an empty identity map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{byKey: make(map[core.TrialKey]int)}
}

// Assign allocates the next free slot for a key.
// A key may hold at most one slot; re-assigning returns ErrDuplicateRecord.
func (m *IdentityMap) Assign(key core.TrialKey) (int, error) {
	if _, exists := m.byKey[key]; exists {
		return 0, ErrDuplicateRecord
	}
	slot := len(m.slots)
	m.slots = append(m.slots, key)
	m.byKey[key] = slot
	return slot, nil
}

// Resolve returns the trial key stored at a slot, or ErrUnknownSlot.
func (m *IdentityMap) Resolve(slot int) (core.TrialKey, error) {
	if slot < 0 || slot >= len(m.slots) {
		return core.TrialKey{}, ErrUnknownSlot
	}
	return m.slots[slot], nil
}

// SlotOf returns the slot held by a key, if any.
func (m *IdentityMap) SlotOf(key core.TrialKey) (int, bool) {
	slot, ok := m.byKey[key]
	return slot, ok
}

// Len returns the number of assigned slots.
func (m *IdentityMap) Len() int {
	return len(m.slots)
}

// Keys returns the assigned keys in slot order. The returned slice is shared;
// callers must not modify it.
func (m *IdentityMap) Keys() []core.TrialKey {
	return m.slots
}
