// Package filesource reads datasets from the local filesystem and watches
// them for changes.
package filesource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure Fetcher implements the interfaces.
var (
	_ driven.Fetcher = (*Fetcher)(nil)
	_ driven.Watcher = (*Fetcher)(nil)
)

// Fetcher opens local files given as paths or file:// URLs.
type Fetcher struct{}

// New creates a file fetcher.
func New() *Fetcher {
	return &Fetcher{}
}

// Supports reports whether locator names a local file.
// Any locator with a scheme other than file is rejected.
func (f *Fetcher) Supports(locator string) bool {
	if locator == "" {
		return false
	}
	if strings.HasPrefix(locator, "file://") {
		return true
	}
	u, err := url.Parse(locator)
	if err != nil {
		// Windows paths and other odd names still parse as paths.
		return true
	}
	// A single-letter scheme is a Windows drive letter.
	return u.Scheme == "" || len(u.Scheme) == 1
}

// Fetch opens the file. The caller closes it.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := Path(locator)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return file, nil
}

// Path converts a locator into a cleaned filesystem path.
func Path(locator string) (string, error) {
	if strings.HasPrefix(locator, "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return "", fmt.Errorf("parse locator: %w", err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("remote file host %q not supported", u.Host)
		}
		return filepath.Clean(filepath.FromSlash(u.Path)), nil
	}
	return filepath.Clean(locator), nil
}
