package driving

import (
	"context"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// ProcessingService drives document images through extraction, duplicate
// detection, identity resolution and filing.
//
// One batch runs at a time per service. Starting another while one is
// active returns domain.ErrBatchInProgress.
type ProcessingService interface {
	// ProcessSingle processes one file as a batch of one.
	ProcessSingle(ctx context.Context, path string) (*domain.BatchSummary, error)

	// ProcessBatch processes the given files in order. Unsupported files are
	// dropped; a batch with none left returns domain.ErrNoSupportedFiles.
	ProcessBatch(ctx context.Context, paths []string) (*domain.BatchSummary, error)

	// ProcessFolder processes the supported images directly inside dir.
	ProcessFolder(ctx context.Context, dir string) (*domain.BatchSummary, error)

	// Stop requests a cooperative stop of the active batch. The file in
	// flight completes; later files are not started. Returns false if no
	// batch is running.
	Stop() bool

	// Status returns a snapshot of the active or last batch.
	Status() domain.BatchStatus

	// Subscribe registers an observer for progress events.
	Subscribe(observer ProgressObserver)
}

// ProgressObserver receives batch progress events.
// OnEvent is called synchronously from the processing goroutine and must
// not block for long.
type ProgressObserver interface {
	OnEvent(event domain.BatchEvent)
}

// ProgressObserverFunc adapts a function to ProgressObserver.
type ProgressObserverFunc func(event domain.BatchEvent)

// OnEvent calls f(event).
func (f ProgressObserverFunc) OnEvent(event domain.BatchEvent) {
	f(event)
}
