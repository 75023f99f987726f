package driving

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// PersonService provides read access to the person registry.
type PersonService interface {
	// List returns every readable person folder in enumeration order.
	// Folders with corrupt metadata are skipped.
	List(ctx context.Context) ([]domain.PersonFolder, error)

	// Get returns one person folder.
	Get(ctx context.Context, id string) (*domain.PersonFolder, error)
}
