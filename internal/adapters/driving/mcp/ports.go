package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions grounded in document text.
	Query driving.QueryService

	// Document extracts and labels uploaded files.
	Document driving.DocumentService

	// History lists the exchanges recorded for a session.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Document and History are optional; their tools report unavailability.
	return nil
}
