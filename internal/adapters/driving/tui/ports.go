// Package tui provides an interactive terminal user interface for kotae.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Search matches queries against the current dataset.
	Search driving.SearchService

	// Dataset reports readiness and reloads the dataset.
	Dataset driving.DatasetService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, dataset driving.DatasetService) *Ports {
	return &Ports{
		Search:  search,
		Dataset: dataset,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Dataset == nil {
		return ErrMissingDatasetService
	}
	return nil
}
