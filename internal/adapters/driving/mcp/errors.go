// Package mcp provides an MCP (Model Context Protocol) server adapter for kotae.
// It lets AI assistants look up answers in the loaded Q&A dataset.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
