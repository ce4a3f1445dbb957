package driven

import (
	"time"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// Observer receives load and query outcomes.
type Observer interface {
	// RecordLoad is called after every load attempt.
	RecordLoad(elapsed time.Duration, records int, err error)

	// RecordQuery is called after every query.
	RecordQuery(state domain.QueryState, matches int)
}
