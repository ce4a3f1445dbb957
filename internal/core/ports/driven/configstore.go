package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files). Keys use dot
// notation, such as "source.locator"; typed conversion happens in the
// settings service so environment overrides share one code path.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
