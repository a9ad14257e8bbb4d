// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SnapshotService runs the extract, parse, normalise, serialise and
// compare pipeline. HistoryService and SettingsService front the
// history and configuration stores.
package services
