package driving

import (
	"context"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// DatasetService loads and exposes the current dataset.
type DatasetService interface {
	// Load fetches, validates and publishes a new dataset.
	// On failure the current dataset is left untouched.
	Load(ctx context.Context) (*domain.Dataset, error)

	// Current returns the published dataset, or nil before the first load.
	Current() *domain.Dataset

	// Status reports readiness and dataset details.
	Status() domain.Status
}
