package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMissingColumn indicates a required header is absent from the source.
	ErrMissingColumn = errors.New("missing column")

	// ErrLoadFailed indicates the source could not be fetched or parsed.
	ErrLoadFailed = errors.New("load failed")

	// ErrTokenizerInitFailed indicates the reading dictionary could not be built.
	// Searching stays disabled.
	ErrTokenizerInitFailed = errors.New("tokenizer initialisation failed")

	// ErrNotReady indicates initialisation has not finished.
	ErrNotReady = errors.New("not ready")

	// ErrNoSource indicates no source locator is configured.
	ErrNoSource = errors.New("no source configured")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates no fetcher handles a locator.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// MissingColumnError names the required columns that were absent and the
// columns that were found instead.
type MissingColumnError struct {
	Missing []string
	Found   []string
}

// Error implements error.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: required %s not found (found: %s)",
		ErrMissingColumn, quoteList(e.Missing), quoteList(e.Found))
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Load stages reported by LoadFailedError.
const (
	LoadStageFetch = "fetch"
	LoadStageParse = "parse"
)

// LoadFailedError wraps a transport or parse failure.
type LoadFailedError struct {
	// Stage is LoadStageFetch or LoadStageParse.
	Stage string

	// Source is the locator that failed.
	Source string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *LoadFailedError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrLoadFailed, e.Stage, e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadFailedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLoadFailed.
func (e *LoadFailedError) Is(target error) bool {
	return target == ErrLoadFailed
}

func quoteList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
