package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown extraction provider or index backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBatchInProgress indicates a batch is already running, either in this
	// process or in another process holding the storage lock.
	ErrBatchInProgress = errors.New("batch in progress")

	// ErrNoSupportedFiles indicates a batch contained no accepted images.
	ErrNoSupportedFiles = errors.New("no supported image files")

	// ErrExtractorUnavailable indicates no extraction provider is configured.
	ErrExtractorUnavailable = errors.New("extraction service unavailable")

	// Extraction Errors.

	// ErrExtraction indicates the external extraction call failed.
	// The file goes to manual review and the batch continues.
	ErrExtraction = errors.New("extraction failed")

	// ErrMissingField indicates the extractor returned no name or doc type.
	ErrMissingField = fmt.Errorf("%w: missing required field", ErrExtraction)

	// ErrMalformedResponse indicates the extractor returned something that
	// is not the expected JSON document.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrExtraction)

	// ErrRateLimited indicates the extraction API rate limit was exceeded.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrExtraction)

	// Storage Errors.

	// ErrFiling indicates copying a document or writing its sidecar failed.
	// The file goes to manual review and the batch continues.
	ErrFiling = errors.New("filing failed")

	// ErrRegistryCorrupt indicates a person folder's metadata is missing or
	// unreadable. Such folders are skipped during scans.
	ErrRegistryCorrupt = errors.New("person metadata corrupt")

	// ErrPersistence indicates the index or registry could not be written.
	// It aborts the running batch.
	ErrPersistence = errors.New("persistence failed")
)
