package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text matched against holder name, document type and document number"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	PersonID string `json:"person_id,omitempty" jsonschema:"only list documents filed for this person folder"`
}

// DocumentsOutput is the output schema for the document tools.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents one index record.
type DocumentOutput struct {
	FileName      string `json:"file_name"`
	DocType       string `json:"doc_type"`
	Name          string `json:"name"`
	DocNumber     string `json:"doc_number,omitempty"`
	DOB           string `json:"dob,omitempty"`
	Gender        string `json:"gender,omitempty"`
	PersonFolder  string `json:"person_folder"`
	FilePath      string `json:"file_path"`
	ProcessedDate string `json:"processed_date"`
}

// GetPersonInput is the input schema for the get_person tool.
type GetPersonInput struct {
	ID string `json:"id" jsonschema:"the person folder name"`
}

// PersonOutput represents one person folder.
type PersonOutput struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	DocNumbers []string         `json:"doc_numbers"`
	DOB        string           `json:"dob,omitempty"`
	Created    string           `json:"created"`
	Documents  []DocumentOutput `json:"documents,omitempty"`
}

// PersonsOutput is the output schema for the list_persons tool.
type PersonsOutput struct {
	Persons []PersonOutput `json:"persons"`
	Count   int            `json:"count"`
}

// ProcessInput is the input schema for the processing tools.
type ProcessInput struct {
	Path string `json:"path" jsonschema:"absolute path of the image file or folder to process"`
}

// SummaryOutput is the outcome of a processing batch.
type SummaryOutput struct {
	JobID      string       `json:"job_id"`
	Message    string       `json:"message"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Duplicates int          `json:"duplicates"`
	Failed     int          `json:"failed"`
	Stopped    bool         `json:"stopped"`
	Items      []ItemOutput `json:"items"`
}

// ItemOutput is the outcome of one file.
type ItemOutput struct {
	FileName string `json:"file_name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// StatusInput is the (empty) input schema for batch_status and stop_batch.
type StatusInput struct{}

// StatusOutput is a snapshot of the processing service.
type StatusOutput struct {
	Running       bool   `json:"running"`
	StopRequested bool   `json:"stop_requested"`
	JobID         string `json:"job_id,omitempty"`
	Current       string `json:"current,omitempty"`
	Total         int    `json:"total"`
	Succeeded     int    `json:"succeeded"`
	Duplicates    int    `json:"duplicates"`
	Failed        int    `json:"failed"`
}

// StopOutput reports whether a stop was requested.
type StopOutput struct {
	Stopping bool `json:"stopping"`
}

const defaultSearchLimit = 20

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search filed identity documents by name, document type or number",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List every filed document, optionally for one person folder",
	}, s.handleListDocuments)

	if s.ports.Person != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_persons",
			Description: "List all person folders",
		}, s.handleListPersons)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_person",
			Description: "Get one person folder with its documents",
		}, s.handleGetPerson)
	}

	if s.ports.Processing != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "process_file",
			Description: "Extract, resolve and file one document image",
		}, s.handleProcessFile)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "process_folder",
			Description: "Process every PNG or JPEG image directly inside a folder",
		}, s.handleProcessFolder)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "batch_status",
			Description: "Show progress of the running or last batch",
		}, s.handleBatchStatus)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stop_batch",
			Description: "Stop the running batch after the current file",
		}, s.handleStopBatch)
	}
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, err := s.ports.Document.Search(ctx, input.Query)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	if len(records) > limit {
		records = records[:limit]
	}

	return nil, toDocumentsOutput(records), nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	var (
		records []domain.DocumentRecord
		err     error
	)
	if input.PersonID != "" {
		records, err = s.ports.Document.ByPerson(ctx, input.PersonID)
	} else {
		records, err = s.ports.Document.All(ctx)
	}
	if err != nil {
		return nil, DocumentsOutput{}, err
	}

	return nil, toDocumentsOutput(records), nil
}

// handleListPersons handles the list_persons tool invocation.
func (s *Server) handleListPersons(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, PersonsOutput, error) {
	folders, err := s.ports.Person.List(ctx)
	if err != nil {
		return nil, PersonsOutput{}, err
	}

	output := PersonsOutput{
		Persons: make([]PersonOutput, len(folders)),
		Count:   len(folders),
	}
	for i := range folders {
		output.Persons[i] = toPersonOutput(&folders[i])
	}
	return nil, output, nil
}

// handleGetPerson handles the get_person tool invocation.
func (s *Server) handleGetPerson(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPersonInput,
) (*mcp.CallToolResult, PersonOutput, error) {
	folder, err := s.ports.Person.Get(ctx, input.ID)
	if err != nil {
		return nil, PersonOutput{}, err
	}

	records, err := s.ports.Document.ByPerson(ctx, folder.ID)
	if err != nil {
		return nil, PersonOutput{}, err
	}

	output := toPersonOutput(folder)
	output.Documents = toDocumentsOutput(records).Documents
	return nil, output, nil
}

// handleProcessFile handles the process_file tool invocation.
func (s *Server) handleProcessFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	summary, err := s.ports.Processing.ProcessSingle(ctx, input.Path)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toSummaryOutput(summary), nil
}

// handleProcessFolder handles the process_folder tool invocation.
func (s *Server) handleProcessFolder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	summary, err := s.ports.Processing.ProcessFolder(ctx, input.Path)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toSummaryOutput(summary), nil
}

// handleBatchStatus handles the batch_status tool invocation.
func (s *Server) handleBatchStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	st := s.ports.Processing.Status()
	return nil, StatusOutput{
		Running:       st.Running,
		StopRequested: st.StopRequested,
		JobID:         st.JobID,
		Current:       st.Current,
		Total:         st.Total,
		Succeeded:     st.Succeeded,
		Duplicates:    st.Duplicates,
		Failed:        st.Failed,
	}, nil
}

// handleStopBatch handles the stop_batch tool invocation.
func (s *Server) handleStopBatch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StopOutput, error) {
	return nil, StopOutput{Stopping: s.ports.Processing.Stop()}, nil
}

func toDocumentsOutput(records []domain.DocumentRecord) DocumentsOutput {
	output := DocumentsOutput{
		Documents: make([]DocumentOutput, len(records)),
		Count:     len(records),
	}
	for i := range records {
		output.Documents[i] = toDocumentOutput(&records[i])
	}
	return output
}

func toDocumentOutput(r *domain.DocumentRecord) DocumentOutput {
	return DocumentOutput{
		FileName:      r.FileName,
		DocType:       r.DocType.String(),
		Name:          r.Name,
		DocNumber:     r.DocNumber,
		DOB:           r.DOB,
		Gender:        r.Gender,
		PersonFolder:  r.PersonFolder,
		FilePath:      r.FilePath,
		ProcessedDate: r.ProcessedDate.UTC().Format(time.RFC3339),
	}
}

func toPersonOutput(p *domain.PersonFolder) PersonOutput {
	numbers := p.DocNumbers
	if numbers == nil {
		numbers = []string{}
	}
	return PersonOutput{
		ID:         p.ID,
		Name:       p.DisplayName,
		DocNumbers: numbers,
		DOB:        p.DOB,
		Created:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toSummaryOutput(s *domain.BatchSummary) SummaryOutput {
	output := SummaryOutput{
		JobID:      s.JobID,
		Message:    s.Message(),
		Total:      s.Total,
		Succeeded:  s.Succeeded,
		Duplicates: s.Duplicates,
		Failed:     s.Failed,
		Stopped:    s.Stopped,
		Items:      make([]ItemOutput, len(s.Items)),
	}
	for i, item := range s.Items {
		output.Items[i] = ItemOutput{
			FileName: item.FileName,
			Status:   string(item.Status),
			Message:  item.Message,
		}
	}
	return output
}
