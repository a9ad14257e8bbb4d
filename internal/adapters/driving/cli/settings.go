package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

var errSettingsServiceMissing = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change docsnap settings.

Keys:
  archive.entry       Archive part holding the document markup (word/document.xml)
  snapshot.dir        Default directory for baselines (__snapshots__)
  normalise.patterns  Date classes to strip, comma separated (iso,long,slash,dash)
  history.enabled     Record every comparison (true)
  history.dir         Directory for history.db (default <config dir>/data)`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Revert a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Archive]")
	cmd.Printf("  Entry: %s\n", settings.EntryName)
	cmd.Println()

	cmd.Println("[Snapshot]")
	cmd.Printf("  Directory: %s\n", settings.SnapshotDir)
	cmd.Println()

	cmd.Println("[Normalise]")
	for _, g := range settings.PatternGroups {
		cmd.Printf("  %-6s %s\n", g, g.Description())
	}
	cmd.Println()

	cmd.Println("[History]")
	status := "enabled"
	if !settings.History.Enabled {
		status = "disabled"
	}
	cmd.Printf("  Status: %s\n", status)
	dir := settings.History.Dir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Directory: %s\n", dir)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	key, value := args[0], args[1]
	if !slices.Contains(settingsService.Keys(), key) {
		return fmt.Errorf("unknown setting %q (valid keys: %s): %w",
			key, strings.Join(settingsService.Keys(), ", "), domain.ErrInvalidInput)
	}
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("%s reverted to default\n", args[0])
	return nil
}
