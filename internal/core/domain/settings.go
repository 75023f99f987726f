package domain

const unknownDescription = "Unknown"

// ExtractionProvider identifies the vision/LLM service used to read documents.
type ExtractionProvider string

// Available extraction providers.
const (
	// ExtractionProviderGemini is the Google Gemini generateContent API.
	ExtractionProviderGemini ExtractionProvider = "gemini"

	// ExtractionProviderOpenAI is any OpenAI-compatible chat completions API,
	// including local servers such as LM Studio or Ollama.
	ExtractionProviderOpenAI ExtractionProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p ExtractionProvider) IsValid() bool {
	switch p {
	case ExtractionProviderGemini, ExtractionProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// OpenAI-compatible local servers accept requests without one.
func (p ExtractionProvider) RequiresAPIKey() bool {
	return p == ExtractionProviderGemini
}

// String returns the string representation.
func (p ExtractionProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ExtractionProvider) Description() string {
	switch p {
	case ExtractionProviderGemini:
		return "Google Gemini (cloud)"
	case ExtractionProviderOpenAI:
		return "OpenAI-compatible (cloud or local)"
	default:
		return unknownDescription
	}
}

// IndexBackend selects the IndexStore implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendJSON stores the index as index.json in the storage root.
	IndexBackendJSON IndexBackend = "json"

	// IndexBackendSQLite stores the index as index.db in the storage root.
	IndexBackendSQLite IndexBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == IndexBackendJSON || b == IndexBackendSQLite
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// StorageSettings holds where processed documents are filed.
type StorageSettings struct {
	// Root is the storage root ("Processed Documents").
	Root string

	// IndexBackend selects the index store.
	IndexBackend IndexBackend
}

// ExtractionSettings holds extraction provider configuration.
type ExtractionSettings struct {
	// Provider is the extraction service provider.
	Provider ExtractionProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// TimeoutSeconds bounds a single extraction request.
	TimeoutSeconds int

	// RequestsPerMinute throttles extraction calls. Zero disables throttling.
	RequestsPerMinute int
}

// IsConfigured returns true if the extraction provider is set up.
func (e ExtractionSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Settings holds all application settings.
type Settings struct {
	// Storage holds filing settings.
	Storage StorageSettings

	// Extraction holds extraction provider settings.
	Extraction ExtractionSettings
}

// Default setting values.
const (
	DefaultStorageDirName         = "Processed Documents"
	DefaultExtractionTimeoutSecs  = 60
	DefaultRequestsPerMinute      = 0
	DefaultExtractionTemperature  = 0.1
	DefaultExtractionMaxImageSize = 20 << 20
)

// DefaultExtractionPrompt asks the model for the document fields as one JSON object.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultExtractionPrompt = `Extract document information from this Indian ID document. Return ONLY valid JSON with this exact structure: {"docType":"AADHAAR|PAN|DRIVING_LICENSE|PASSPORT|VOTER_ID","name":"FULL NAME IN CAPITAL LETTERS","docNumber":"DOCUMENT NUMBER","dob":"DD/MM/YYYY","gender":"Male|Female"}. If any field is not found, use null.`

// DefaultSettings returns settings with sensible defaults.
// The storage root is left empty; callers resolve it against the home
// directory. The API key is never defaulted.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			IndexBackend: IndexBackendJSON,
		},
		Extraction: ExtractionSettings{
			Provider:          ExtractionProviderGemini,
			Model:             DefaultExtractionModels()[ExtractionProviderGemini],
			TimeoutSeconds:    DefaultExtractionTimeoutSecs,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
	}
}

// AllExtractionProviders returns every supported provider.
func AllExtractionProviders() []ExtractionProvider {
	return []ExtractionProvider{
		ExtractionProviderGemini,
		ExtractionProviderOpenAI,
	}
}

// DefaultExtractionModels returns default models for each provider.
func DefaultExtractionModels() map[ExtractionProvider]string {
	return map[ExtractionProvider]string{
		ExtractionProviderGemini: "gemini-2.0-flash",
		ExtractionProviderOpenAI: "gpt-4o-mini",
	}
}

// DefaultExtractionBaseURLs returns default endpoints for each provider.
func DefaultExtractionBaseURLs() map[ExtractionProvider]string {
	return map[ExtractionProvider]string{
		ExtractionProviderGemini: "https://generativelanguage.googleapis.com/v1beta",
		ExtractionProviderOpenAI: "https://api.openai.com/v1",
	}
}
