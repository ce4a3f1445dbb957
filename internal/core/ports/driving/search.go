package driving

import (
	"context"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// SearchService filters the current dataset by keyword query.
type SearchService interface {
	// Search matches query against the current dataset.
	// An empty query yields StateNoQuery. Before readiness it yields
	// StateNotReady with domain.ErrNotReady, or with the stage error if an
	// initialisation stage failed.
	Search(ctx context.Context, query string) (domain.QueryResult, error)
}
