package driving

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// DocumentService provides read access to the document index.
type DocumentService interface {
	// Search returns records whose name, doc type or doc number contains
	// query, case-insensitively, in index order.
	Search(ctx context.Context, query string) ([]domain.DocumentRecord, error)

	// All returns every record in index order.
	All(ctx context.Context) ([]domain.DocumentRecord, error)

	// ByPerson returns the records filed into one person folder.
	ByPerson(ctx context.Context, folderID string) ([]domain.DocumentRecord, error)
}
