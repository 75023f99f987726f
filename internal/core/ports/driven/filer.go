package driven

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// DocumentFiler places document files on disk.
// Failures wrap domain.ErrFiling.
type DocumentFiler interface {
	// File copies src into the person folder and returns the destination
	// path and the checksum of the copied bytes.
	File(ctx context.Context, src, folderID string) (dest string, checksum string, err error)

	// WriteSidecar writes the per-file metadata next to the filed copy.
	WriteSidecar(ctx context.Context, rec *domain.DocumentRecord) error

	// QuarantineForReview copies src into the manual review area.
	QuarantineForReview(ctx context.Context, src string) (dest string, err error)
}
