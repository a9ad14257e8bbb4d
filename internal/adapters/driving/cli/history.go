package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// errHistoryUnavailable is returned when no history service is installed,
// which is how disabled history is wired.
var errHistoryUnavailable = fmt.Errorf(
	"%w (enable with: docsnap settings set history.enabled true)", domain.ErrHistoryDisabled)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded comparisons",
	Long: `List recorded comparisons, newest first.

Every compare is recorded with its outcome and a hash of the normalised
content unless history.enabled is false.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded comparison",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune <snapshot>",
	Short: "Delete the recorded comparisons for a baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().StringP("snapshot", "s", "", "Only comparisons against this baseline")
	historyCmd.Flags().String("outcome", "", "Only this outcome: created, matched or mismatched")
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of records (0 = all)")
	historyCmd.Flags().Bool("json", false, "Print records as JSON")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// recordJSON is the machine-readable form of a history record.
type recordJSON struct {
	ID           string `json:"id"`
	DocumentPath string `json:"document_path"`
	SnapshotPath string `json:"snapshot_path"`
	Outcome      string `json:"outcome"`
	ContentHash  string `json:"content_hash"`
	ComparedAt   string `json:"compared_at"`
}

func toRecordJSON(r domain.ComparisonRecord) recordJSON {
	return recordJSON{
		ID:           r.ID,
		DocumentPath: r.DocumentPath,
		SnapshotPath: r.SnapshotPath,
		Outcome:      r.Outcome.String(),
		ContentHash:  r.ContentHash,
		ComparedAt:   r.ComparedAt.UTC().Format(time.RFC3339),
	}
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errHistoryUnavailable
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	outcome, _ := cmd.Flags().GetString("outcome")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	records, err := historyService.List(cmd.Context(), domain.HistoryFilter{
		SnapshotPath: snapshotPath,
		Outcome:      domain.Outcome(outcome),
		Limit:        limit,
	})
	if err != nil {
		return err
	}

	if asJSON {
		out := make([]recordJSON, len(records))
		for i := range records {
			out[i] = toRecordJSON(records[i])
		}
		return writeJSON(cmd, out)
	}

	if len(records) == 0 {
		cmd.Println("No comparisons recorded.")
		return nil
	}

	s := stylesFor(cmd)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tOUTCOME\tDOCUMENT\tBASELINE\tID")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ComparedAt.Local().Format("2006-01-02 15:04:05"),
			s.Outcome(r.Outcome).Render(r.Outcome.String()),
			r.DocumentPath,
			r.SnapshotPath,
			shortID(r.ID),
		)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryUnavailable
	}

	record, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("comparison %q: %w", args[0], err)
		}
		return err
	}

	r := toRecordJSON(*record)
	cmd.Printf("ID:        %s\n", r.ID)
	cmd.Printf("Document:  %s\n", r.DocumentPath)
	cmd.Printf("Baseline:  %s\n", r.SnapshotPath)
	cmd.Printf("Outcome:   %s\n", r.Outcome)
	cmd.Printf("SHA-256:   %s\n", r.ContentHash)
	cmd.Printf("Compared:  %s\n", r.ComparedAt)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryUnavailable
	}

	n, err := historyService.Prune(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Removed %d records for %s\n", n, args[0])
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
