package domain

import "fmt"

// ParseOptions controls how delimited text is parsed.
type ParseOptions struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune

	// Headerless disables header parsing; the first row is data.
	Headerless bool
}

// Table is the parsed form of a delimited-text source.
type Table struct {
	// Header holds trimmed column names. Nil in headerless mode.
	Header []string

	// Rows holds data rows. Empty lines are already skipped.
	Rows [][]string

	// Errors holds row-level problems that did not stop parsing.
	Errors []RowError
}

// RowError describes a row that could not be parsed.
type RowError struct {
	// Line is the 1-based line number in the source.
	Line int

	// Message describes the problem.
	Message string
}

// Error implements error.
func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at column idx of row, or "" when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
