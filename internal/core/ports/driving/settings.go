package driving

import "github.com/custodia-labs/docfiler/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, environment overrides applied.
	Get() (*domain.Settings, error)

	// Set validates and persists one setting by key.
	Set(key, value string) error

	// Reset removes a stored setting so its default applies again.
	Reset(key string) error

	// Keys returns the recognised setting keys in display order.
	Keys() []string

	// Display returns the effective value of key for display, secrets masked.
	Display(key string) (string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks the current settings are usable for processing.
	Validate() error
}
