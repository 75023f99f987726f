package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docfiler resources.
	uriScheme = "docfiler://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Every filed document in processing order",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "persons",
		Name:        "persons",
		Description: "List of all person folders",
		MIMEType:    "application/json",
	}, s.handlePersonsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "persons/{personId}",
		Name:        "person",
		Description: "One person folder with its filed documents",
		MIMEType:    "application/json",
	}, s.handlePersonResource)
}

// handleIndexResource returns the whole index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Document.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	return jsonResource(req.Params.URI, toDocumentsOutput(records).Documents)
}

// handlePersonsResource returns a list of all person folders.
func (s *Server) handlePersonsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Person == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	folders, err := s.ports.Person.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	persons := make([]PersonOutput, len(folders))
	for i := range folders {
		persons[i] = toPersonOutput(&folders[i])
	}
	return jsonResource(req.Params.URI, persons)
}

// handlePersonResource returns one person folder with its documents.
func (s *Server) handlePersonResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Person == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract personId from URI: docfiler://persons/{personId}
	id := extractPersonID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	folder, err := s.ports.Person.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Document.ByPerson(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	person := toPersonOutput(folder)
	person.Documents = toDocumentsOutput(records).Documents
	return jsonResource(req.Params.URI, person)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPersonID extracts the folder ID from a URI like docfiler://persons/{personId}.
func extractPersonID(uri string) string {
	const prefix = uriScheme + "persons/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
