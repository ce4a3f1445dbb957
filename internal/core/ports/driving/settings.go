package driving

import "github.com/custodia-labs/kotae/internal/core/domain"

// SettingsService resolves and edits application settings.
type SettingsService interface {
	// Get resolves settings from environment overrides, then the config file,
	// then defaults.
	Get() (*domain.Settings, error)

	// Set validates value for key and persists it to the config file.
	Set(key, value string) error

	// Keys lists every recognised configuration key.
	Keys() []string
}
