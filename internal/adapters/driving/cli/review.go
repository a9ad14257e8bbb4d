package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/adapters/driving/tui/review"
	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// runReviewer is replaced in tests.
var runReviewer = review.Run

var reviewCmd = &cobra.Command{
	Use:   "review <document>",
	Short: "Compare a document and review a mismatch interactively",
	Long: `Compare a document with its baseline. On a mismatch, open a terminal
viewer with the diff and the current content.

Controls:
  ↑/k, ↓/j - Scroll
  tab      - Switch between diff and content
  a / y    - Accept: overwrite the baseline
  r / n    - Reject: keep the baseline
  ?        - Toggle help
  q        - Quit without deciding`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	addSnapshotFlag(reviewCmd)
	addPatternsFlag(reviewCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	svc, err := snapshotServiceFor(cmd)
	if err != nil {
		return err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	document := args[0]

	result, err := svc.CompareWithSnapshot(cmd.Context(), document, snapshotPath)
	if err != nil {
		return err
	}

	s := stylesFor(cmd)
	if result.Success {
		printResult(cmd, s, document, result, false)
		return nil
	}

	decision, err := runReviewer(cmd.Context(), result, s)
	if err != nil {
		return err
	}

	if decision != review.DecisionAccept {
		printResult(cmd, s, document, result, false)
		return fmt.Errorf("%s: %w", document, domain.ErrSnapshotMismatch)
	}

	if _, err := svc.UpdateSnapshot(cmd.Context(), document, result.SnapshotPath); err != nil {
		return err
	}
	cmd.Printf("accepted, updated %s\n", result.SnapshotPath)
	return nil
}
