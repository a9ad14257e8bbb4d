package domain

import (
	"fmt"
	"strings"
)

// DefaultEntryName is the main markup part of a WordprocessingML package.
const DefaultEntryName = "word/document.xml"

// DefaultSnapshotDir is where baselines go when no path is given.
const DefaultSnapshotDir = "__snapshots__"

// SnapshotExt is the file extension of baselines derived from a document name.
const SnapshotExt = ".snap"

// Settings holds typed application configuration.
type Settings struct {
	// EntryName is the archive part holding the document markup.
	EntryName string

	// SnapshotDir is the default directory for baselines.
	SnapshotDir string

	// PatternGroups are the date classes stripped before comparison.
	PatternGroups []PatternGroup

	// History controls the comparison history store.
	History HistorySettings
}

// HistorySettings controls recording of comparisons.
type HistorySettings struct {
	// Enabled records every comparison when true.
	Enabled bool

	// Dir holds history.db. Empty means the default data directory.
	Dir string
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		EntryName:     DefaultEntryName,
		SnapshotDir:   DefaultSnapshotDir,
		PatternGroups: AllPatternGroups(),
		History: HistorySettings{
			Enabled: true,
		},
	}
}

// Validate checks the settings for obvious mistakes.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.EntryName) == "" {
		return fmt.Errorf("entry name is empty: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(s.SnapshotDir) == "" {
		return fmt.Errorf("snapshot directory is empty: %w", ErrInvalidInput)
	}
	for _, g := range s.PatternGroups {
		if !g.IsValid() {
			return fmt.Errorf("unknown pattern group %q: %w", g, ErrInvalidInput)
		}
	}
	return nil
}

// PatternNames returns the configured pattern groups as strings.
func (s Settings) PatternNames() []string {
	names := make([]string, len(s.PatternGroups))
	for i, g := range s.PatternGroups {
		names[i] = g.String()
	}
	return names
}
