package memory

import (
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore publishes datasets through an atomic pointer, so readers
// never take a lock and always see a complete dataset.
type RecordStore struct {
	current atomic.Pointer[domain.Dataset]

	// mu serialises writers so versions are assigned in publish order.
	mu      sync.Mutex
	version uint64
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Current returns the published dataset, or nil before the first Replace.
func (s *RecordStore) Current() *domain.Dataset {
	return s.current.Load()
}

// Replace assigns d the next version and publishes it.
// d must not be modified afterwards.
func (s *RecordStore) Replace(d *domain.Dataset) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	d.Version = s.version
	s.current.Store(d)
	return s.version
}
