package driven

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// IndexStore persists the ordered collection of processed documents.
// Insertion order is preserved and records are not deduplicated
// automatically; callers check FindDuplicate first.
type IndexStore interface {
	// Load returns every record in insertion order.
	// A missing or unreadable store yields an empty collection, not an error.
	Load(ctx context.Context) ([]domain.DocumentRecord, error)

	// AppendOrUpdate replaces the record with the same FileName in place,
	// or appends it, and persists the collection.
	AppendOrUpdate(ctx context.Context, rec domain.DocumentRecord) error

	// Save persists the whole collection, replacing what is stored.
	Save(ctx context.Context, recs []domain.DocumentRecord) error

	// FindDuplicate returns the first record whose name, doc type and doc
	// number all equal the given values, or nil if there is none.
	FindDuplicate(ctx context.Context, name string, docType domain.DocType, docNumber string) (*domain.DocumentRecord, error)

	// Close releases any held resources.
	Close() error
}
