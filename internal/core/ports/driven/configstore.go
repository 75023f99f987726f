package driven

// ConfigStore holds the persisted settings as flat dot-notation keys
// ("extraction.provider"). Writes are persisted before they return.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the value under key if it is a string, else "".
	GetString(key string) string

	// GetInt returns the value under key as an int. Numeric strings are
	// parsed; anything else yields 0.
	GetInt(key string) int

	// Set stores value under key.
	Set(key string, value any) error

	// Unset removes key so its default applies again. Removing a key that
	// is not set is not an error.
	Unset(key string) error

	// Keys returns every key currently set, sorted.
	Keys() []string

	// Path describes where the values are kept.
	Path() string
}
