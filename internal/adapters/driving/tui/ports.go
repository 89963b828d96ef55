// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document extracts and labels the opened file.
	Document driving.DocumentService

	// Query answers questions about the open document.
	Query driving.QueryService

	// History restores the transcript of a resumed session. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	document driving.DocumentService,
	query driving.QueryService,
	history driving.HistoryService,
) *Ports {
	return &Ports{
		Document: document,
		Query:    query,
		History:  history,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
