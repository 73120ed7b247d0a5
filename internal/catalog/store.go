package catalog

import "sync/atomic"

// Store holds the active catalog snapshot. Exactly one writer (the running
// refresh cycle) replaces the snapshot while any number of readers load it;
// the atomic pointer makes the replacement indivisible, so a reader either
// sees the old snapshot in full or the new one in full. A reader that loaded
// the old snapshot keeps using it to completion, GC reclaims it once the last
// reference drops.
type Store struct {
	active atomic.Pointer[Catalog]
}

// NewStore creates an empty store. Current returns nil until the first Swap.
func NewStore() *Store {
	return &Store{}
}

// Swap atomically replaces the active catalog snapshot.
func (s *Store) Swap(c *Catalog) {
	s.active.Store(c)
}

// Current returns the active catalog snapshot, or nil before the first
// successful refresh. It never blocks on an in-flight refresh.
func (s *Store) Current() *Catalog {
	return s.active.Load()
}

// IsPopulated reports whether a catalog has been swapped in at least once.
func (s *Store) IsPopulated() bool {
	return s.active.Load() != nil
}
