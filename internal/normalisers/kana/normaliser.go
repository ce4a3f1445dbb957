// Package kana normalises Japanese and Latin text for keyword matching.
//
// Text is lowercased and katakana is folded to hiragana, so "カロリー",
// "かろりー" and "カろリー" all compare equal. Optionally, full-width ASCII
// and half-width katakana are folded to their canonical widths first.
package kana

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/custodia-labs/kotae/internal/core/domain"
	"github.com/custodia-labs/kotae/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextNormaliser = (*Normaliser)(nil)

// Katakana block mapped onto hiragana, from ァ to ヶ.
const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = 0x60
)

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithWidthFold enables width folding before lowercasing.
func WithWidthFold(enabled bool) Option {
	return func(n *Normaliser) {
		n.foldWidth = enabled
	}
}

// Normaliser lowercases text and folds katakana to hiragana.
type Normaliser struct {
	foldWidth bool
}

// New creates a normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalise returns the comparison form of s.
func (n *Normaliser) Normalise(s string) string {
	if n.foldWidth {
		s = width.Fold.String(s)
	}
	return FoldKatakana(strings.ToLower(s))
}

// Reading joins the readings of tokens in order, then normalises the result.
func (n *Normaliser) Reading(tokens []domain.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Reading != "" && tok.Reading != "*" {
			b.WriteString(tok.Reading)
			continue
		}
		b.WriteString(tok.Surface)
	}
	return n.Normalise(b.String())
}

// Normalise lowercases s and folds katakana to hiragana, without width folding.
func Normalise(s string) string {
	return FoldKatakana(strings.ToLower(s))
}

// FoldKatakana shifts each katakana code point in ァ..ヶ down by 0x60 onto
// its hiragana counterpart. Other runes, including the prolonged sound mark,
// are left alone.
func FoldKatakana(s string) string {
	if !hasKatakana(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

func hasKatakana(s string) bool {
	for _, r := range s {
		if r >= katakanaFirst && r <= katakanaLast {
			return true
		}
	}
	return false
}
