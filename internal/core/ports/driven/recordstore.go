package driven

import "github.com/custodia-labs/kotae/internal/core/domain"

// RecordStore holds the current Dataset.
// Readers always see either the previous or the next Dataset, never a mix.
type RecordStore interface {
	// Current returns the published Dataset, or nil before the first load.
	Current() *domain.Dataset

	// Replace publishes d, assigns it the next version and returns that version.
	Replace(d *domain.Dataset) uint64
}
