package mcp

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	records   []domain.DocumentRecord
	err       error
	lastQuery string
	lastID    string
}

func (m *mockDocumentService) Search(_ context.Context, query string) ([]domain.DocumentRecord, error) {
	m.lastQuery = query
	return m.records, m.err
}

func (m *mockDocumentService) All(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func (m *mockDocumentService) ByPerson(_ context.Context, folderID string) ([]domain.DocumentRecord, error) {
	m.lastID = folderID
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.DocumentRecord
	for _, r := range m.records {
		if r.PersonFolder == folderID {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockPersonService is a mock implementation of driving.PersonService.
type mockPersonService struct {
	persons []domain.PersonFolder
	err     error
}

func (m *mockPersonService) List(_ context.Context) ([]domain.PersonFolder, error) {
	return m.persons, m.err
}

func (m *mockPersonService) Get(_ context.Context, id string) (*domain.PersonFolder, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.persons {
		if m.persons[i].ID == id {
			p := m.persons[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockProcessingService is a mock implementation of driving.ProcessingService.
type mockProcessingService struct {
	summary  *domain.BatchSummary
	status   domain.BatchStatus
	err      error
	stopped  bool
	lastPath string
}

func (m *mockProcessingService) ProcessSingle(_ context.Context, path string) (*domain.BatchSummary, error) {
	m.lastPath = path
	return m.summary, m.err
}

func (m *mockProcessingService) ProcessBatch(_ context.Context, paths []string) (*domain.BatchSummary, error) {
	if len(paths) > 0 {
		m.lastPath = paths[0]
	}
	return m.summary, m.err
}

func (m *mockProcessingService) ProcessFolder(_ context.Context, dir string) (*domain.BatchSummary, error) {
	m.lastPath = dir
	return m.summary, m.err
}

func (m *mockProcessingService) Stop() bool {
	return m.stopped
}

func (m *mockProcessingService) Status() domain.BatchStatus {
	return m.status
}

func (m *mockProcessingService) Subscribe(_ driving.ProgressObserver) {}
