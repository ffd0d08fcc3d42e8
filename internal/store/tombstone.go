package store

import "sync"

// TombstoneSet records deleted chapter IDs so late publishes from background
// summary runs cannot bring them back.
type TombstoneSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewTombstoneSet creates an empty set.
func NewTombstoneSet() *TombstoneSet {
	return &TombstoneSet{ids: make(map[string]struct{})}
}

// Add marks ids as deleted.
func (t *TombstoneSet) Add(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
}

// Has reports whether id was deleted.
func (t *TombstoneSet) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// Len returns the number of tombstoned IDs.
func (t *TombstoneSet) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}
