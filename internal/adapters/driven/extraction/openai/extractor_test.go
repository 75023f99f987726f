package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "licence.jpeg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	return path
}

func choiceResponse(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": content}},
		},
	}
}

func TestNewExtractor(t *testing.T) {
	_, err := NewExtractor(extraction.Config{})
	assert.Error(t, err, "hosted OpenAI needs a key")

	e, err := NewExtractor(extraction.Config{BaseURL: "http://localhost:1234/v1"})
	require.NoError(t, err, "local servers do not")
	assert.Equal(t, DefaultModel, e.ModelName())
	assert.Nil(t, e.headers())
}

func TestExtractor_Extract(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(choiceResponse(
			"```json\n{\"docType\":\"driving licence\",\"name\":\"Priya Sharma\",\"docNumber\":\"DL-0420110012345\"}\n```"))
	}))
	defer server.Close()

	e, err := NewExtractor(extraction.Config{APIKey: "secret", BaseURL: server.URL, Model: "vision"})
	require.NoError(t, err)

	fields, err := e.Extract(context.Background(), writeImage(t))
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeDrivingLicense, fields.DocType)
	assert.Equal(t, "PRIYA SHARMA", fields.Name)
	assert.Equal(t, "DL-0420110012345", fields.DocNumber)

	assert.Equal(t, "vision", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "image_url", got.Messages[0].Content[1].Type)
	assert.True(t, strings.HasPrefix(got.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestExtractor_Extract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
		want    error
	}{
		{name: "unauthorised", status: http.StatusUnauthorized, payload: map[string]any{"error": map[string]string{"message": "bad key"}}, want: domain.ErrExtraction},
		{name: "rate limited", status: http.StatusTooManyRequests, payload: map[string]string{}, want: domain.ErrRateLimited},
		{name: "api error body", status: http.StatusOK, payload: map[string]any{"error": map[string]string{"message": "model not loaded"}}, want: domain.ErrExtraction},
		{name: "no choices", status: http.StatusOK, payload: map[string]any{"choices": []any{}}, want: domain.ErrMalformedResponse},
		{name: "prose answer", status: http.StatusOK, payload: choiceResponse("The name is Priya."), want: domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.payload)
			}))
			defer server.Close()

			e, err := NewExtractor(extraction.Config{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = e.Extract(context.Background(), writeImage(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestExtractor_Extract_UnsupportedFile(t *testing.T) {
	e, err := NewExtractor(extraction.Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), "scan.pdf")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedType))
}

func TestExtractor_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	e, err := NewExtractor(extraction.Config{BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, e.Ping(context.Background()))
}
