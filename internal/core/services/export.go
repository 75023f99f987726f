package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService gathers the index and the registry for an Exporter.
type ExportService struct {
	index    driven.IndexStore
	persons  *PersonService
	exporter driven.Exporter
}

// NewExportService creates a new export service.
func NewExportService(index driven.IndexStore, registry driven.PersonRegistry, exporter driven.Exporter) *ExportService {
	return &ExportService{
		index:    index,
		persons:  NewPersonService(registry),
		exporter: exporter,
	}
}

// Export writes every document and readable person folder to w.
func (s *ExportService) Export(ctx context.Context, w io.Writer) (int, int, error) {
	docs, err := s.index.Load(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load index: %w", err)
	}
	persons, err := s.persons.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	if err := s.exporter.Export(ctx, w, docs, persons); err != nil {
		return 0, 0, fmt.Errorf("export: %w", err)
	}
	return len(docs), len(persons), nil
}
