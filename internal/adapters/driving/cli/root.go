// Package cli provides the docsnap command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
	"github.com/custodia-labs/docsnap/internal/logger"
)

// EnvHome overrides the configuration directory when --config-dir is not given.
const EnvHome = "DOCSNAP_HOME"

// noServicesAnnotation marks commands that run without the service graph.
const noServicesAnnotation = "docsnap/no-services"

var version = "dev"

// Services bundles the driving ports used by the commands.
type Services struct {
	Snapshot driving.SnapshotService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// ServiceFactory builds the services for a configuration directory.
// An empty configDir means the default location.
type ServiceFactory func(configDir string) (*Services, error)

var (
	snapshotService driving.SnapshotService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	closeServices   func() error
	serviceFactory  ServiceFactory
)

var rootCmd = &cobra.Command{
	Use:   "docsnap",
	Short: "Snapshot testing for generated DOCX documents",
	Long: `docsnap checks that a generated DOCX document still matches a recorded
baseline. The main document part is parsed, date fields are stripped, and
the canonical text is compared with the baseline byte for byte.

The first comparison for a document records its baseline. Later comparisons
report a match or a mismatch with a unified diff.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config-dir", "",
		"Configuration directory (default $"+EnvHome+" or ~/.docsnap)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices installs ready-made services. Used by tests and embedders.
func SetServices(s *Services) {
	if s == nil {
		snapshotService, historyService, settingsService, closeServices = nil, nil, nil, nil
		return
	}
	snapshotService = s.Snapshot
	historyService = s.History
	settingsService = s.Settings
	closeServices = s.Close
}

// SetServiceFactory sets the factory used to build services once flags
// are parsed.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("closing services: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("getting verbose flag: %w", err)
	}
	logger.SetVerbose(verbose)

	if serviceFactory == nil || snapshotService != nil || cmd.Annotations[noServicesAnnotation] != "" {
		return nil
	}

	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("getting config-dir flag: %w", err)
	}
	if configDir == "" {
		configDir = os.Getenv(EnvHome)
	}

	logger.Debug("building services (config dir %q)", configDir)
	services, err := serviceFactory(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}
