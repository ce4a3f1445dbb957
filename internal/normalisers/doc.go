// Package normalisers provides implementations of the TextNormaliser
// interface. A normaliser maps record text and query terms into the space
// in which substring matching happens.
package normalisers
