// Package gemini provides an Extractor backed by the Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

const apiKeyHeader = "x-goog-api-key"

// Extractor reads ID documents with a Gemini vision model.
type Extractor struct {
	client  *extraction.Client
	baseURL string
	apiKey  string
	model   string
	prompt  string
}

// generateRequest is the :generateContent request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// generateResponse is the :generateContent response body.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewExtractor creates a Gemini extractor.
func NewExtractor(cfg extraction.Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = domain.DefaultExtractionPrompt
	}

	return &Extractor{
		client:  extraction.NewClient("gemini", cfg),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		prompt:  cfg.Prompt,
	}, nil
}

// Extract sends the image with the extraction prompt and decodes the answer.
func (e *Extractor) Extract(ctx context.Context, imagePath string) (*domain.ExtractedFields, error) {
	img, err := extraction.LoadImage(imagePath)
	if err != nil {
		return nil, err
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: img.MIMEType, Data: img.Base64}},
				{Text: e.prompt},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:      extraction.DefaultTemperature,
			ResponseMimeType: "application/json",
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", e.baseURL, url.PathEscape(e.model))
	body, err := e.client.PostJSON(ctx, endpoint, map[string]string{apiKeyHeader: e.apiKey}, reqBody)
	if err != nil {
		return nil, err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: gemini: decode response: %w", domain.ErrMalformedResponse, err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: gemini: request blocked: %s", domain.ErrExtraction, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini: no candidates returned", domain.ErrMalformedResponse)
	}

	return extraction.DecodeFields(resp.Candidates[0].Content.Parts[0].Text)
}

// ModelName returns the model used for extraction.
func (e *Extractor) ModelName() string {
	return e.model
}

// Ping lists models to check the key without running inference.
func (e *Extractor) Ping(ctx context.Context) error {
	if _, err := e.client.Get(ctx, e.baseURL+"/models", map[string]string{apiKeyHeader: e.apiKey}); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (e *Extractor) Close() error {
	return nil
}
