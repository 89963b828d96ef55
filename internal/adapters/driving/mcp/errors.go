// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants upload documents and ask page-cited questions about them.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
