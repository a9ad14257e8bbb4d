package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
	"github.com/custodia-labs/docsnap/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyArchiveEntry      = "archive.entry"
	KeySnapshotDir       = "snapshot.dir"
	KeyNormalisePatterns = "normalise.patterns"
	KeyHistoryEnabled    = "history.enabled"
	KeyHistoryDir        = "history.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Unset or invalid stored values fall
// back to defaults.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	return domain.Settings{
		EntryName:     s.getString(KeyArchiveEntry, defaults.EntryName),
		SnapshotDir:   s.getString(KeySnapshotDir, defaults.SnapshotDir),
		PatternGroups: s.getPatternGroups(defaults.PatternGroups),
		History: domain.HistorySettings{
			Enabled: s.getBool(KeyHistoryEnabled, defaults.History.Enabled),
			Dir:     s.configStore.GetString(KeyHistoryDir), // No default - empty means the data directory
		},
	}, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	var stored any

	switch key {
	case KeyArchiveEntry, KeySnapshotDir:
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("%s cannot be empty: %w", key, domain.ErrInvalidInput)
		}
		stored = value
	case KeyHistoryDir:
		stored = strings.TrimSpace(value)
	case KeyNormalisePatterns:
		groups, err := domain.ParsePatternGroups(strings.Split(value, ","))
		if err != nil {
			return err
		}
		stored = domain.Settings{PatternGroups: groups}.PatternNames()
	case KeyHistoryEnabled:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, domain.ErrInvalidInput)
		}
		stored = b
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset reverts a key to its default.
func (s *SettingsService) Unset(key string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		KeyArchiveEntry,
		KeySnapshotDir,
		KeyNormalisePatterns,
		KeyHistoryEnabled,
		KeyHistoryDir,
	}
	sort.Strings(keys)
	return keys
}

func isKnownKey(key string) bool {
	switch key {
	case KeyArchiveEntry, KeySnapshotDir, KeyNormalisePatterns, KeyHistoryEnabled, KeyHistoryDir:
		return true
	default:
		return false
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	b, ok := val.(bool)
	if !ok {
		logger.Warn("ignoring non-boolean %s", key)
		return defaultVal
	}
	return b
}

func (s *SettingsService) getPatternGroups(defaultVal []domain.PatternGroup) []domain.PatternGroup {
	names := s.configStore.GetStringSlice(KeyNormalisePatterns)
	if len(names) == 0 {
		return defaultVal
	}
	groups, err := domain.ParsePatternGroups(names)
	if err != nil {
		logger.Warn("ignoring %s: %v", KeyNormalisePatterns, err)
		return defaultVal
	}
	return groups
}
