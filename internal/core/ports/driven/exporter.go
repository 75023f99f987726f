package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// Exporter renders the index and the person registry into a report.
type Exporter interface {
	// Export writes documents and persons to w.
	Export(ctx context.Context, w io.Writer, docs []domain.DocumentRecord, persons []domain.PersonFolder) error
}
