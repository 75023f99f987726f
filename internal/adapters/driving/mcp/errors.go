// Package mcp provides an MCP (Model Context Protocol) server adapter for docfiler.
// It lets AI assistants search the document index, browse person folders
// and start or stop processing batches.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
