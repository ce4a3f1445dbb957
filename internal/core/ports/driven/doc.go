// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Fetcher: Retrieves the raw delimited-text source
//   - TableParser: Parses delimited text into a header and rows
//   - RecordStore: Holds the current versioned Dataset
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenizerBuilder: Builds the reading dictionary. Without it, queries
//     match the normalised text only.
//   - Watcher: Signals source changes. Without it, reloads are manual or periodic.
//   - Observer: Receives load and query outcomes for metrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
