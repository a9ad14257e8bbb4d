package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

var compareCmd = &cobra.Command{
	Use:   "compare <document>",
	Short: "Compare a document with its baseline",
	Long: `Compare the normalised content of a DOCX document with its baseline.

If no baseline exists it is created and the comparison passes. A mismatch
prints a unified diff and exits with a non-zero status. The baseline is
never changed by a comparison unless --update is given.

Examples:
  docsnap compare invoice.docx
  docsnap compare invoice.docx --snapshot testdata/invoice.snap
  docsnap compare invoice.docx --patterns iso,long --json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	addSnapshotFlag(compareCmd)
	addPatternsFlag(compareCmd)
	compareCmd.Flags().Bool("json", false, "Print the result as JSON")
	compareCmd.Flags().Bool("no-diff", false, "Do not print the diff for mismatches")
	compareCmd.Flags().BoolP("update", "u", false, "Overwrite the baseline when it does not match")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	svc, err := snapshotServiceFor(cmd)
	if err != nil {
		return err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	asJSON, _ := cmd.Flags().GetBool("json")
	noDiff, _ := cmd.Flags().GetBool("no-diff")
	update, _ := cmd.Flags().GetBool("update")

	document := args[0]
	result, err := svc.CompareWithSnapshot(cmd.Context(), document, snapshotPath)
	if err != nil {
		return err
	}

	if asJSON {
		if err := printResultJSON(cmd, document, result); err != nil {
			return err
		}
	} else {
		printResult(cmd, stylesFor(cmd), document, result, !noDiff)
	}

	if result.Success {
		return nil
	}

	if update {
		if _, err := svc.UpdateSnapshot(cmd.Context(), document, result.SnapshotPath); err != nil {
			return err
		}
		if !asJSON {
			cmd.Printf("updated %s\n", result.SnapshotPath)
		}
		return nil
	}

	return fmt.Errorf("%s: %w", document, domain.ErrSnapshotMismatch)
}
