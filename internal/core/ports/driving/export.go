package driving

import (
	"context"
	"io"
)

// ExportService produces a report of everything filed so far.
type ExportService interface {
	// Export writes the report to w and returns the number of documents
	// and persons included.
	Export(ctx context.Context, w io.Writer) (docs, persons int, err error)
}
