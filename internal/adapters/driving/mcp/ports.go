package mcp

import (
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document provides read access to the index.
	Document driving.DocumentService

	// Person provides read access to the person registry.
	Person driving.PersonService

	// Processing runs batches. Nil leaves the server read-only.
	Processing driving.ProcessingService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
