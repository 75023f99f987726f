// Package openai provides an Extractor for OpenAI and OpenAI-compatible
// chat completion APIs, including local servers such as LM Studio or Ollama.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Extractor reads ID documents through /chat/completions with an image part.
type Extractor struct {
	client  *extraction.Client
	baseURL string
	apiKey  string
	model   string
	prompt  string
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewExtractor creates an OpenAI-compatible extractor. The API key is
// optional so local servers work without one.
func NewExtractor(cfg extraction.Config) (*Extractor, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.BaseURL == DefaultBaseURL && cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required for %s", DefaultBaseURL)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = domain.DefaultExtractionPrompt
	}

	return &Extractor{
		client:  extraction.NewClient("openai", cfg),
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

	reqBody := chatCompletionRequest{
		Model: e.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: e.prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: img.DataURL()}},
			},
		}},
		Temperature:    extraction.DefaultTemperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := e.client.PostJSON(ctx, e.baseURL+"/chat/completions", e.headers(), reqBody)
	if err != nil {
		return nil, err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: openai: decode response: %w", domain.ErrMalformedResponse, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: openai error: %s", domain.ErrExtraction, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai: no response choices returned", domain.ErrMalformedResponse)
	}

	return extraction.DecodeFields(resp.Choices[0].Message.Content)
}

// ModelName returns the model used for extraction.
func (e *Extractor) ModelName() string {
	return e.model
}

// Ping checks the /models endpoint without running inference.
func (e *Extractor) Ping(ctx context.Context) error {
	if _, err := e.client.Get(ctx, e.baseURL+"/models", e.headers()); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (e *Extractor) Close() error {
	return nil
}

func (e *Extractor) headers() map[string]string {
	if e.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + e.apiKey}
}
