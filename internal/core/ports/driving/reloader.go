package driving

import "context"

// Reloader re-runs dataset loads in the background, on an interval or when
// the source changes.
type Reloader interface {
	// Start begins the reload loop.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop and waits for an in-flight reload.
	Stop() error
}
