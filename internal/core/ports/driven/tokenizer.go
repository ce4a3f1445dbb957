package driven

import (
	"context"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

// Tokenizer splits Japanese text into morphemes with readings.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) []domain.Token
}

// TokenizerBuilder constructs a Tokenizer. Building loads a dictionary
// and may take a noticeable amount of time.
type TokenizerBuilder interface {
	Build(ctx context.Context) (Tokenizer, error)
}
