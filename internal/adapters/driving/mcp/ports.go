package mcp

import (
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search matches queries against the current dataset.
	Search driving.SearchService

	// Dataset exposes status and records. Optional; resources are empty without it.
	Dataset driving.DatasetService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
