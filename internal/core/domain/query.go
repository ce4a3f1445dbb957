package domain

// QueryState distinguishes the outcomes of a query.
type QueryState string

const (
	// StateNoQuery means the query was empty or whitespace only.
	// Callers show a prompt, not an empty-results message.
	StateNoQuery QueryState = "no_query"

	// StateMatched means the query ran. Records may still be empty.
	StateMatched QueryState = "matched"

	// StateNotReady means initialisation has not finished, so the
	// query was not run.
	StateNotReady QueryState = "not_ready"
)

// QueryResult is the outcome of matching a query against the current dataset.
type QueryResult struct {
	// State is the query outcome.
	State QueryState

	// Query is the raw query as received.
	Query string

	// Terms are the normalised query terms.
	Terms []string

	// Records are the matching records in dataset order.
	Records []Record

	// Version is the dataset version the query ran against.
	Version uint64
}

// Count returns the number of matching records.
func (r QueryResult) Count() int {
	return len(r.Records)
}

// NoResults reports whether the query ran and matched nothing.
func (r QueryResult) NoResults() bool {
	return r.State == StateMatched && len(r.Records) == 0
}
