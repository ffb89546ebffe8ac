package memory

import (
	"context"
	"sync"
)

// SelectionStore keeps the published review IDs per listing for the life of the process.
//
// The mutex only keeps the map memory-safe. Two saves for the same listing still race
// and the last one wins; nothing orders concurrent operators.
type SelectionStore struct {
	mu   sync.RWMutex
	byLN map[string][]int64
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{byLN: make(map[string][]int64)}
}

// Save replaces the listing's selection. IDs are not checked against known reviews.
func (s *SelectionStore) Save(_ context.Context, listingName string, reviewIDs []int64) error {
	ids := make([]int64, len(reviewIDs))
	copy(ids, reviewIDs)

	s.mu.Lock()
	s.byLN[listingName] = ids
	s.mu.Unlock()
	return nil
}

// Get returns the last saved IDs in their saved order, or an empty list.
func (s *SelectionStore) Get(_ context.Context, listingName string) ([]int64, error) {
	s.mu.RLock()
	ids := s.byLN[listingName]
	s.mu.RUnlock()

	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}
