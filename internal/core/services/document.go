package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService answers queries over the document index.
type DocumentService struct {
	index driven.IndexStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(index driven.IndexStore) *DocumentService {
	return &DocumentService{index: index}
}

// Search returns records matching query in index order.
// An empty query matches nothing.
func (s *DocumentService) Search(ctx context.Context, query string) ([]domain.DocumentRecord, error) {
	logger.Debug("Search query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.DocumentRecord{}, nil
	}

	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.DocumentRecord, 0)
	for i := range all {
		if all[i].Matches(query) {
			results = append(results, all[i])
		}
	}
	logger.Debug("Search matched %d of %d records", len(results), len(all))
	return results, nil
}

// All returns every record in index order.
func (s *DocumentService) All(ctx context.Context) ([]domain.DocumentRecord, error) {
	recs, err := s.index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return recs, nil
}

// ByPerson returns the records filed into one person folder.
func (s *DocumentService) ByPerson(ctx context.Context, folderID string) ([]domain.DocumentRecord, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]domain.DocumentRecord, 0)
	for i := range all {
		if all[i].PersonFolder == folderID {
			results = append(results, all[i])
		}
	}
	return results, nil
}
