package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docsnap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docsnap/internal/core/domain"
)

// stylesFor returns colour styles when the command writes to a terminal.
func stylesFor(cmd *cobra.Command) *styles.Styles {
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return styles.DefaultStyles()
	}
	return styles.PlainStyles()
}

// resultJSON is the machine-readable form of a comparison.
type resultJSON struct {
	Document        string `json:"document"`
	SnapshotPath    string `json:"snapshot_path"`
	Outcome         string `json:"outcome"`
	Success         bool   `json:"success"`
	IsNewSnapshot   bool   `json:"is_new_snapshot"`
	Message         string `json:"message"`
	Content         string `json:"content"`
	ExpectedContent string `json:"expected_content,omitempty"`
	Diff            string `json:"diff,omitempty"`
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func printResultJSON(cmd *cobra.Command, document string, r *domain.ComparisonResult) error {
	return writeJSON(cmd, resultJSON{
		Document:        document,
		SnapshotPath:    r.SnapshotPath,
		Outcome:         r.Outcome.String(),
		Success:         r.Success,
		IsNewSnapshot:   r.IsNewSnapshot,
		Message:         r.Message,
		Content:         r.Content,
		ExpectedContent: r.ExpectedContent,
		Diff:            r.Diff,
	})
}

// printResult writes a one-line summary and, for mismatches, the diff.
func printResult(cmd *cobra.Command, s *styles.Styles, document string, r *domain.ComparisonResult, showDiff bool) {
	out := cmd.OutOrStdout()
	label := s.Outcome(r.Outcome).Render(fmt.Sprintf("%-10s", r.Outcome))
	fmt.Fprintf(out, "%s %s\n", label, document)
	fmt.Fprintf(out, "%s\n", s.Muted.Render("  baseline: "+r.SnapshotPath))

	if showDiff && r.Diff != "" {
		fmt.Fprintln(out)
		fmt.Fprint(out, s.Diff(r.Diff))
	}
}
