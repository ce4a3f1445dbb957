package driven

import "github.com/custodia-labs/kotae/internal/core/domain"

// TextNormaliser maps record text and query terms into the comparison space.
// Normalise must be idempotent and deterministic, and the same
// implementation must be used for records and queries.
type TextNormaliser interface {
	// Normalise returns the comparison form of s.
	Normalise(s string) string

	// Reading joins the hiragana readings of tokens, falling back to the
	// surface form for tokens without a reading.
	Reading(tokens []domain.Token) string
}
