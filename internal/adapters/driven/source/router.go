package source

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.Fetcher = (*Router)(nil)

// Router delegates to the first fetcher that supports a locator.
type Router struct {
	fetchers []driven.Fetcher
}

// NewRouter creates a router over fetchers, tried in order.
func NewRouter(fetchers ...driven.Fetcher) *Router {
	return &Router{fetchers: fetchers}
}

// Supports reports whether any fetcher handles locator.
func (r *Router) Supports(locator string) bool {
	return r.pick(locator) != nil
}

// Fetch opens locator with the first supporting fetcher.
func (r *Router) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	f := r.pick(locator)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, locator)
	}
	return f.Fetch(ctx, locator)
}

func (r *Router) pick(locator string) driven.Fetcher {
	for _, f := range r.fetchers {
		if f.Supports(locator) {
			return f
		}
	}
	return nil
}
