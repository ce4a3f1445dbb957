package driven

import (
	"context"
	"io"
)

// Fetcher retrieves the raw bytes of a dataset source.
type Fetcher interface {
	// Supports reports whether this fetcher handles the locator.
	Supports(locator string) bool

	// Fetch opens the source. The caller closes the reader.
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)
}

// Watcher signals when a source changes.
type Watcher interface {
	// Watch calls onChange whenever the source at locator changes.
	// Blocks until ctx is cancelled or watching fails.
	Watch(ctx context.Context, locator string, onChange func()) error
}
