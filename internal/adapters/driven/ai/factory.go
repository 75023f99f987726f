// Package ai provides factory functions for creating extraction adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction/gemini"
	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction/openai"
	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Options carries the optional collaborators of an extractor.
type Options struct {
	// Prompts supplies a user-edited extraction prompt. Nil uses the default.
	Prompts driven.PromptStore

	// Recorder observes every extraction call. Nil disables recording.
	Recorder driven.ExtractionRecorder
}

// CreateExtractor creates the extractor for the configured provider.
// Returns nil if extraction is not configured.
func CreateExtractor(settings *domain.ExtractionSettings, opts Options) (driven.Extractor, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	cfg := extraction.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
		Prompt:  loadPrompt(opts.Prompts),
		Limiter: extraction.NewRateLimiter(settings.RequestsPerMinute),
	}

	var (
		ex  driven.Extractor
		err error
	)
	switch settings.Provider {
	case domain.ExtractionProviderGemini:
		ex, err = gemini.NewExtractor(cfg)
	case domain.ExtractionProviderOpenAI:
		ex, err = openai.NewExtractor(cfg)
	default:
		return nil, fmt.Errorf("%w: extraction provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if opts.Recorder != nil {
		ex = Instrument(ex, settings.Provider.String(), opts.Recorder)
	}
	return ex, nil
}

// CreateAndValidateExtractor creates an extractor and checks connectivity.
// Unlike CreateExtractor it fails when extraction is not configured.
func CreateAndValidateExtractor(settings *domain.ExtractionSettings, opts Options) (driven.Extractor, error) {
	ex, err := CreateExtractor(settings, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docfiler settings set extraction.api_key <key>' to fix",
			domain.ErrExtractorUnavailable, err)
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: no API key configured. Set DOCFILER_API_KEY or run "+
			"'docfiler settings set extraction.api_key <key>'", domain.ErrExtractorUnavailable)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := ex.Ping(ctx); err != nil {
		ex.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrExtractorUnavailable, err)
	}
	return ex, nil
}

// ValidateExtractionConfig creates an extractor for settings and pings it.
func ValidateExtractionConfig(settings *domain.ExtractionSettings) error {
	ex, err := CreateAndValidateExtractor(settings, Options{})
	if err != nil {
		return err
	}
	return ex.Close()
}

func loadPrompt(store driven.PromptStore) string {
	if store == nil {
		return ""
	}
	prompt, err := store.Load(driven.PromptExtraction)
	if err != nil {
		logger.Warn("Loading extraction prompt: %v (using default)", err)
		return ""
	}
	return prompt
}
