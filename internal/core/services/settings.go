package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyStorageRoot       = "storage.root"
	KeyIndexBackend      = "storage.index_backend"
	KeyProvider          = "extraction.provider"
	KeyModel             = "extraction.model"
	KeyBaseURL           = "extraction.base_url"
	KeyAPIKey            = "extraction.api_key"
	KeyTimeoutSeconds    = "extraction.timeout_seconds"
	KeyRequestsPerMinute = "extraction.requests_per_minute"
	envAPIKey            = "DOCFILER_API_KEY"
	envStorageRoot       = "DOCFILER_STORAGE_ROOT"
	envGeminiAPIKey      = "GEMINI_API_KEY"
	envOpenAIAPIKey      = "OPENAI_API_KEY"
	maxRequestsPerMinute = 6000
	maxTimeoutSeconds    = 600
)

// SettingsService manages application settings.
// Values come from the config store, then environment variables override
// the storage root and API key.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
	homeDir     func() (string, error)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
		homeDir:     os.UserHomeDir,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	provider := domain.ExtractionProvider(s.configStore.GetString(KeyProvider))
	if !provider.IsValid() {
		provider = defaults.Extraction.Provider
	}

	backend := domain.IndexBackend(s.configStore.GetString(KeyIndexBackend))
	if !backend.IsValid() {
		backend = defaults.Storage.IndexBackend
	}

	root, err := s.storageRoot()
	if err != nil {
		return nil, err
	}

	settings := &domain.Settings{
		Storage: domain.StorageSettings{
			Root:         root,
			IndexBackend: backend,
		},
		Extraction: domain.ExtractionSettings{
			Provider:          provider,
			Model:             s.getString(KeyModel, domain.DefaultExtractionModels()[provider]),
			BaseURL:           s.getString(KeyBaseURL, domain.DefaultExtractionBaseURLs()[provider]),
			APIKey:            s.apiKey(provider),
			TimeoutSeconds:    s.getInt(KeyTimeoutSeconds, defaults.Extraction.TimeoutSeconds),
			RequestsPerMinute: s.getInt(KeyRequestsPerMinute, defaults.Extraction.RequestsPerMinute),
		},
	}
	return settings, nil
}

// Set validates and persists one setting.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case KeyStorageRoot:
		if value == "" {
			return fmt.Errorf("%w: storage root cannot be empty", domain.ErrInvalidInput)
		}
		stored = expandHome(value, s.homeDir)
	case KeyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return fmt.Errorf("%w: index backend %q (want json or sqlite)", domain.ErrUnsupportedType, value)
		}
	case KeyProvider:
		if !domain.ExtractionProvider(value).IsValid() {
			return fmt.Errorf("%w: extraction provider %q (want gemini or openai)", domain.ErrUnsupportedType, value)
		}
	case KeyModel, KeyBaseURL, KeyAPIKey:
	case KeyTimeoutSeconds:
		n, err := parseBounded(value, 1, maxTimeoutSeconds)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		stored = n
	case KeyRequestsPerMinute:
		n, err := parseBounded(value, 0, maxRequestsPerMinute)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		stored = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes a stored setting so its default, or the environment
// override, applies again.
func (s *SettingsService) Reset(key string) error {
	if !s.known(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) known(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyStorageRoot,
		KeyIndexBackend,
		KeyProvider,
		KeyModel,
		KeyBaseURL,
		KeyAPIKey,
		KeyTimeoutSeconds,
		KeyRequestsPerMinute,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks the current settings are usable for processing.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Extraction.IsConfigured() {
		return fmt.Errorf(
			"%w: %s requires an API key (set %s or %s)",
			domain.ErrExtractorUnavailable, settings.Extraction.Provider.Description(), KeyAPIKey, envAPIKey,
		)
	}
	return nil
}

// Display returns the effective value of key formatted for display, with
// the API key masked.
func (s *SettingsService) Display(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyStorageRoot:
		return settings.Storage.Root, nil
	case KeyIndexBackend:
		return settings.Storage.IndexBackend.String(), nil
	case KeyProvider:
		return settings.Extraction.Provider.String(), nil
	case KeyModel:
		return settings.Extraction.Model, nil
	case KeyBaseURL:
		return settings.Extraction.BaseURL, nil
	case KeyAPIKey:
		if settings.Extraction.APIKey == "" {
			return "", nil
		}
		return maskSecret(settings.Extraction.APIKey), nil
	case KeyTimeoutSeconds:
		return strconv.Itoa(settings.Extraction.TimeoutSeconds), nil
	case KeyRequestsPerMinute:
		return strconv.Itoa(settings.Extraction.RequestsPerMinute), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func (s *SettingsService) storageRoot() (string, error) {
	if root, ok := s.lookupEnv(envStorageRoot); ok && root != "" {
		return expandHome(root, s.homeDir), nil
	}
	if root := s.configStore.GetString(KeyStorageRoot); root != "" {
		return expandHome(root, s.homeDir), nil
	}
	home, err := s.homeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, domain.DefaultStorageDirName), nil
}

// apiKey prefers DOCFILER_API_KEY, then the provider's own variable, then
// the stored key.
func (s *SettingsService) apiKey(provider domain.ExtractionProvider) string {
	if v, ok := s.lookupEnv(envAPIKey); ok && v != "" {
		return v
	}
	providerEnv := envGeminiAPIKey
	if provider == domain.ExtractionProviderOpenAI {
		providerEnv = envOpenAIAPIKey
	}
	if v, ok := s.lookupEnv(providerEnv); ok && v != "" {
		return v
	}
	return s.configStore.GetString(KeyAPIKey)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func parseBounded(value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, value)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", domain.ErrInvalidInput, n, lo, hi)
	}
	return n, nil
}

func expandHome(path string, homeDir func() (string, error)) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
