// Package kagome provides a Tokenizer backed by the kagome morphological
// analyser and its IPA dictionary.
package kagome

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// DefaultCacheSize is the number of tokenised texts kept when no size is given.
const DefaultCacheSize = 4096

// Verify interface compliance.
var (
	_ driven.TokenizerBuilder = (*Builder)(nil)
	_ driven.Tokenizer        = (*Tokenizer)(nil)
)

// Builder loads the IPA dictionary and returns a Tokenizer.
type Builder struct {
	cacheSize int
}

// NewBuilder creates a Builder. A cacheSize of zero or less disables caching.
func NewBuilder(cacheSize int) *Builder {
	return &Builder{cacheSize: cacheSize}
}

type buildResult struct {
	t   *tokenizer.Tokenizer
	err error
}

// Build loads the dictionary. Loading cannot be interrupted, so a cancelled
// context returns early and the result is discarded.
func (b *Builder) Build(ctx context.Context) (driven.Tokenizer, error) {
	done := make(chan buildResult, 1)
	go func() {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		done <- buildResult{t: t, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("load ipa dictionary: %w", res.err)
		}
		return newTokenizer(res.t, b.cacheSize)
	}
}

// Tokenizer wraps a kagome tokenizer with an optional result cache.
// Safe for concurrent use.
type Tokenizer struct {
	t     *tokenizer.Tokenizer
	cache *lru.Cache[string, []domain.Token]
}

func newTokenizer(t *tokenizer.Tokenizer, cacheSize int) (*Tokenizer, error) {
	tk := &Tokenizer{t: t}
	if cacheSize > 0 {
		cache, err := lru.New[string, []domain.Token](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create token cache: %w", err)
		}
		tk.cache = cache
	}
	return tk, nil
}

// Tokenize splits text into morphemes. Dictionary readings are katakana;
// unknown words have no reading.
func (k *Tokenizer) Tokenize(text string) []domain.Token {
	if text == "" {
		return nil
	}
	if k.cache != nil {
		if tokens, ok := k.cache.Get(text); ok {
			return tokens
		}
	}

	kt := k.t.Tokenize(text)
	tokens := make([]domain.Token, 0, len(kt))
	for _, tok := range kt {
		reading, _ := tok.Reading()
		tokens = append(tokens, domain.Token{Surface: tok.Surface, Reading: reading})
	}

	if k.cache != nil {
		k.cache.Add(text, tokens)
	}
	return tokens
}
