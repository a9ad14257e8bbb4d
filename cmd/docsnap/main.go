// Command docsnap compares generated DOCX documents with recorded baselines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	configfile "github.com/custodia-labs/docsnap/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/docsnap/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/docsnap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docsnap/internal/adapters/driving/cli"
	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/core/services"
	"github.com/custodia-labs/docsnap/internal/logger"
	"github.com/custodia-labs/docsnap/internal/normalisers/canonical"
	"github.com/custodia-labs/docsnap/internal/normalisers/dates"
	"github.com/custodia-labs/docsnap/internal/normalisers/docx"
	"github.com/custodia-labs/docsnap/internal/normalisers/markup"
)

// Set by the linker: -ldflags "-X main.version=1.2.3".
var version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cli.SetVersion(version)
	cli.SetServiceFactory(buildServices)

	err := cli.Execute(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrSnapshotMismatch):
		return exitMismatch
	default:
		return exitError
	}
}

// buildServices wires the adapters for a configuration directory.
func buildServices(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := configfile.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var (
		history driven.HistoryStore
		closers []func() error
	)
	if settings.History.Enabled {
		dataDir := settings.History.Dir
		if dataDir == "" {
			dataDir = filepath.Join(configDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		logger.Debug("history database %s", store.Path())
		history = store.HistoryStore()
		closers = append(closers, store.Close)
	}

	snapshotService, err := services.NewSnapshotService(
		docx.New(),
		markup.New(),
		canonical.New(),
		storagefile.NewSnapshotStore(),
		history,
		dates.Factory,
		settings,
	)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, err
	}

	svc := &cli.Services{
		Snapshot: snapshotService,
		Settings: settingsService,
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}
	// Left nil when disabled so history tools and commands are not offered.
	if history != nil {
		svc.History = services.NewHistoryService(history)
	}
	return svc, nil
}
