package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// instrumentedExtractor reports the duration and outcome of every call.
type instrumentedExtractor struct {
	driven.Extractor
	provider string
	recorder driven.ExtractionRecorder
	now      func() time.Time
}

// Instrument wraps ex so each Extract call is recorded.
func Instrument(ex driven.Extractor, provider string, rec driven.ExtractionRecorder) driven.Extractor {
	return &instrumentedExtractor{
		Extractor: ex,
		provider:  provider,
		recorder:  rec,
		now:       time.Now,
	}
}

func (e *instrumentedExtractor) Extract(ctx context.Context, imagePath string) (*domain.ExtractedFields, error) {
	start := e.now()
	fields, err := e.Extractor.Extract(ctx, imagePath)
	e.recorder.ObserveExtraction(e.provider, e.now().Sub(start), err)
	return fields, err
}
