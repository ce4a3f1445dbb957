package driven

import (
	"io"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// TableParser parses delimited text.
type TableParser interface {
	// Parse reads the whole input. Row-level problems are reported in
	// Table.Errors; an error is returned only when nothing usable was read.
	Parse(r io.Reader, opts domain.ParseOptions) (*domain.Table, error)
}
