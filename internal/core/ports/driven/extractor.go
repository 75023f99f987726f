package driven

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// Extractor reads the structured fields off a document image.
// It is a black box to the core: the returned fields are cleaned and
// validated by the caller.
type Extractor interface {
	// Extract reads the image at path. Errors wrap domain.ErrExtraction;
	// responses that are not the expected JSON wrap domain.ErrMalformedResponse.
	Extract(ctx context.Context, imagePath string) (*domain.ExtractedFields, error)

	// ModelName returns the model used for extraction.
	ModelName() string

	// Ping checks the provider is reachable and the credentials work.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}
