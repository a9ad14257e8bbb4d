package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

var errSnapshotServiceMissing = errors.New("snapshot service not configured")

func addPatternsFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice("patterns", nil,
		"Date classes to strip: iso, long, slash, dash (default from settings)")
}

func addSnapshotFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("snapshot", "s", "", "Baseline file (default <snapshot.dir>/<name>.snap)")
}

// snapshotServiceFor returns the snapshot service narrowed by --patterns.
func snapshotServiceFor(cmd *cobra.Command) (driving.SnapshotService, error) {
	if snapshotService == nil {
		return nil, errSnapshotServiceMissing
	}
	if !cmd.Flags().Changed("patterns") {
		return snapshotService, nil
	}

	names, err := cmd.Flags().GetStringSlice("patterns")
	if err != nil {
		return nil, fmt.Errorf("getting patterns flag: %w", err)
	}
	groups, err := domain.ParsePatternGroups(names)
	if err != nil {
		return nil, err
	}
	return snapshotService.WithPatternGroups(groups)
}
