// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/kotae/internal/core/domain"
)

// SearchCompleted carries the outcome of one query back to the model.
// Query is the input value the search ran for, so stale results can be dropped.
type SearchCompleted struct {
	Query  string
	Result domain.QueryResult
	Err    error
}

// StatusUpdated carries a readiness snapshot.
type StatusUpdated struct {
	Status domain.Status
}

// StatusTick asks the model to poll readiness again.
type StatusTick struct{}

// ReloadCompleted signals that a manual reload finished.
type ReloadCompleted struct {
	Dataset *domain.Dataset
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
