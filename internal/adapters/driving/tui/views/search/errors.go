package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoDatasetService indicates that reloading is unavailable.
	ErrNoDatasetService = errors.New("dataset service is required to reload")
)
