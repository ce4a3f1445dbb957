// Package file provides file-based implementations of driven port interfaces.
// These adapters read configuration from the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - Env: process environment with a .env overlay
package file
