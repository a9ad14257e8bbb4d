package driving

import "github.com/custodia-labs/docsnap/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, filling unset keys with defaults.
	Get() (domain.Settings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Set validates and stores a single setting by key.
	Set(key, value string) error

	// Unset reverts a key to its default.
	Unset(key string) error

	// Keys returns the supported setting keys.
	Keys() []string
}
