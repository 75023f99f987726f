// Package extraction holds the pieces shared by the vision-model extractors:
// image loading, response decoding and validation, and request throttling.
//
// Provider clients live in the gemini and openai subpackages. Both send the
// image inline with the extraction prompt, ask for a JSON response at low
// temperature and decode it with DecodeFields.
package extraction

import "time"

// Config holds the settings common to every provider.
type Config struct {
	// APIKey authenticates the request. Optional for local OpenAI-compatible servers.
	APIKey string

	// BaseURL is the API base URL. Empty means the provider default.
	BaseURL string

	// Model is the vision model. Empty means the provider default.
	Model string

	// Timeout bounds a single request (default 60s).
	Timeout time.Duration

	// Prompt is the instruction sent with every image. Empty means the
	// built-in extraction prompt.
	Prompt string

	// Limiter throttles requests. Nil means unlimited.
	Limiter *RateLimiter
}

// Default request settings.
const (
	DefaultTimeout     = 60 * time.Second
	DefaultTemperature = 0.1
)
