package driven

import "time"

// ExtractionRecorder records extraction call outcomes for monitoring.
// Implementations must be safe for concurrent use.
type ExtractionRecorder interface {
	// ObserveExtraction records one extraction call.
	ObserveExtraction(provider string, duration time.Duration, err error)
}
