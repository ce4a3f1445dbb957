// Package csvtable parses delimited text (CSV, TSV) into a domain.Table.
//
// The first non-empty record is the header unless headerless mode is set.
// Header names are trimmed, a UTF-8 byte order mark is dropped, and blank
// lines are skipped. Rows with unbalanced quotes are reported as row errors
// and skipped rather than failing the whole file.
package csvtable

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TableParser = (*Parser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// maxRowErrors bounds how many bad rows are tolerated before parsing stops.
const maxRowErrors = 100

// Parser parses delimited text.
type Parser struct{}

// New creates a parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads the whole input.
func (p *Parser) Parse(r io.Reader, opts domain.ParseOptions) (*domain.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	// Quotes inside unquoted fields are literal text.
	reader.LazyQuotes = true

	table := &domain.Table{}
	needHeader := !opts.Headerless

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, err
			}
			table.Errors = append(table.Errors, domain.RowError{
				Line:    parseErr.StartLine,
				Message: parseErr.Err.Error(),
			})
			if len(table.Errors) >= maxRowErrors {
				break
			}
			continue
		}

		if blank(record) {
			continue
		}

		if needHeader {
			table.Header = trimAll(record)
			needHeader = false
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// blank reports whether every field is empty or whitespace, as produced by
// lines like ",,," in spreadsheet exports.
func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
