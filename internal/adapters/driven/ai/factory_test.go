package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(string) (string, error) { return m.prompt, m.err }

type observation struct {
	provider string
	err      error
}

type mockRecorder struct {
	observed []observation
}

func (m *mockRecorder) ObserveExtraction(provider string, _ time.Duration, err error) {
	m.observed = append(m.observed, observation{provider: provider, err: err})
}

type stubExtractor struct {
	err error
}

func (s *stubExtractor) Extract(context.Context, string) (*domain.ExtractedFields, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ExtractedFields{Name: "A", DocType: domain.DocTypePAN}, nil
}
func (s *stubExtractor) ModelName() string          { return "stub" }
func (s *stubExtractor) Ping(context.Context) error { return nil }
func (s *stubExtractor) Close() error               { return nil }

func TestCreateExtractor(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.ExtractionSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:    "nil settings returns nil",
			wantNil: true,
		},
		{
			name:     "gemini without key returns nil",
			settings: &domain.ExtractionSettings{Provider: domain.ExtractionProviderGemini},
			wantNil:  true,
		},
		{
			name:      "gemini with key",
			settings:  &domain.ExtractionSettings{Provider: domain.ExtractionProviderGemini, APIKey: "k"},
			wantModel: "gemini-2.0-flash",
		},
		{
			name: "local openai-compatible server",
			settings: &domain.ExtractionSettings{
				Provider: domain.ExtractionProviderOpenAI,
				BaseURL:  "http://localhost:1234/v1",
				Model:    "qwen2-vl",
			},
			wantModel: "qwen2-vl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := CreateExtractor(tt.settings, Options{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, ex)
				return
			}
			require.NotNil(t, ex)
			assert.Equal(t, tt.wantModel, ex.ModelName())
		})
	}
}

func TestCreateExtractor_Instrumented(t *testing.T) {
	rec := &mockRecorder{}
	ex, err := CreateExtractor(
		&domain.ExtractionSettings{Provider: domain.ExtractionProviderGemini, APIKey: "k"},
		Options{Recorder: rec, Prompts: &mockPromptStore{prompt: "custom"}},
	)
	require.NoError(t, err)

	_, ok := ex.(*instrumentedExtractor)
	assert.True(t, ok)
}

func TestCreateAndValidateExtractor_NotConfigured(t *testing.T) {
	_, err := CreateAndValidateExtractor(&domain.ExtractionSettings{Provider: domain.ExtractionProviderGemini}, Options{})
	assert.True(t, errors.Is(err, domain.ErrExtractorUnavailable))
}

func TestCreateAndValidateExtractor_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := ValidateExtractionConfig(&domain.ExtractionSettings{
		Provider: domain.ExtractionProviderOpenAI,
		BaseURL:  server.URL,
	})
	assert.True(t, errors.Is(err, domain.ErrExtractorUnavailable))
}

func TestValidateExtractionConfig_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	err := ValidateExtractionConfig(&domain.ExtractionSettings{
		Provider: domain.ExtractionProviderOpenAI,
		BaseURL:  server.URL,
	})
	assert.NoError(t, err)
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	rec := &mockRecorder{}
	boom := errors.New("boom")

	ok := Instrument(&stubExtractor{}, "gemini", rec)
	_, err := ok.Extract(context.Background(), "a.png")
	require.NoError(t, err)

	failing := Instrument(&stubExtractor{err: boom}, "openai", rec)
	_, err = failing.Extract(context.Background(), "b.png")
	require.ErrorIs(t, err, boom)

	require.Len(t, rec.observed, 2)
	assert.Equal(t, "gemini", rec.observed[0].provider)
	assert.NoError(t, rec.observed[0].err)
	assert.Equal(t, "openai", rec.observed[1].provider)
	assert.ErrorIs(t, rec.observed[1].err, boom)
	assert.Equal(t, "stub", failing.ModelName())
}

func TestLoadPrompt(t *testing.T) {
	assert.Empty(t, loadPrompt(nil))
	assert.Equal(t, "custom", loadPrompt(&mockPromptStore{prompt: "custom"}))
	assert.Empty(t, loadPrompt(&mockPromptStore{err: errors.New("unreadable")}))
}
