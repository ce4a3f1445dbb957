// Package domain defines the core business entities for kotae.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: One question/answer unit derived from one source row
//   - Dataset: The ordered, versioned sequence of Records currently served
//   - QueryResult: The outcome of matching a query against a Dataset
//   - Table: Parsed delimited text handed from a parser to the loader
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
