package domain

import (
	"fmt"
	"time"
)

// BatchEventKind identifies a progress event emitted during processing.
type BatchEventKind string

// Batch event kinds. Every item gets exactly one started event followed by
// exactly one terminal event.
const (
	EventBatchStarted  BatchEventKind = "batch.started"
	EventItemStarted   BatchEventKind = "item.started"
	EventItemDuplicate BatchEventKind = "item.duplicate"
	EventItemSucceeded BatchEventKind = "item.succeeded"
	EventItemFailed    BatchEventKind = "item.failed"
	EventBatchFinished BatchEventKind = "batch.finished"
)

// IsTerminal returns true for the three per-item outcome events.
func (k BatchEventKind) IsTerminal() bool {
	return k == EventItemDuplicate || k == EventItemSucceeded || k == EventItemFailed
}

// String returns the string representation.
func (k BatchEventKind) String() string {
	return string(k)
}

// ItemStatus is the final outcome of one file.
type ItemStatus string

// Item outcomes.
const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemDuplicate ItemStatus = "duplicate"
	ItemFailed    ItemStatus = "failed"
)

// BatchEvent is a progress notification delivered to observers.
type BatchEvent struct {
	// Kind is the event kind.
	Kind BatchEventKind

	// JobID identifies the batch.
	JobID string

	// FileName is the base name of the file, empty for batch-level events.
	FileName string

	// Index is the 1-based position of the file in the batch.
	Index int

	// Total is the number of files in the batch.
	Total int

	// Message is human-readable: "NAME - DOCTYPE" on success, "Already
	// exists" on duplicate, the error text on failure.
	Message string

	// Record is the filed record on success, or the existing record on duplicate.
	Record *DocumentRecord

	// Summary is set on batch.finished.
	Summary *BatchSummary

	// Duration is how long the item took, set on terminal events.
	Duration time.Duration

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// ItemResult is the outcome of one file in a batch.
type ItemResult struct {
	// FileName is the base name of the file.
	FileName string `json:"fileName"`

	// SourcePath is the file that was processed.
	SourcePath string `json:"sourcePath"`

	// Status is the outcome.
	Status ItemStatus `json:"status"`

	// Message is the same text as the terminal event.
	Message string `json:"message"`

	// Record is set for succeeded and duplicate outcomes.
	Record *DocumentRecord `json:"record,omitempty"`
}

// BatchSummary is the outcome of a whole batch. The three counters always
// add up to the number of items that reached a terminal state.
type BatchSummary struct {
	// JobID identifies the batch.
	JobID string `json:"jobId"`

	// Total is the number of files submitted.
	Total int `json:"total"`

	// Succeeded is the number of files filed.
	Succeeded int `json:"succeeded"`

	// Duplicates is the number of files skipped as already indexed.
	Duplicates int `json:"duplicates"`

	// Failed is the number of files sent to manual review.
	Failed int `json:"failed"`

	// Stopped is true if the batch ended early on request.
	Stopped bool `json:"stopped"`

	// Items holds per-file outcomes in processing order.
	Items []ItemResult `json:"items"`

	// StartedAt and FinishedAt bracket the batch.
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Processed returns the number of items that reached a terminal state.
func (s *BatchSummary) Processed() int {
	return s.Succeeded + s.Duplicates + s.Failed
}

// Record counts an item outcome.
func (s *BatchSummary) Record(item ItemResult) {
	switch item.Status {
	case ItemSucceeded:
		s.Succeeded++
	case ItemDuplicate:
		s.Duplicates++
	case ItemFailed:
		s.Failed++
	}
	s.Items = append(s.Items, item)
}

// Message formats the completion line shown to users.
func (s *BatchSummary) Message() string {
	prefix := "Done!"
	if s.Stopped {
		prefix = "Stopped!"
	}
	return fmt.Sprintf("%s ✓ %d | ⚠ %d duplicates | ✗ %d failed",
		prefix, s.Succeeded, s.Duplicates, s.Failed)
}

// BatchStatus is a point-in-time view of the processing service.
type BatchStatus struct {
	// Running is true while a batch is active.
	Running bool

	// StopRequested is true once Stop has been called for the active batch.
	StopRequested bool

	// JobID identifies the active batch, or the last one when idle.
	JobID string

	// Current is the file being processed, empty when idle.
	Current string

	// Total is the number of files in the active batch.
	Total int

	// Succeeded, Duplicates and Failed mirror the live counters.
	Succeeded  int
	Duplicates int
	Failed     int

	// StartedAt is when the active batch started.
	StartedAt time.Time
}
