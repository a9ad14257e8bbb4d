package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsnap/internal/adapters/driving/watch"
	"github.com/custodia-labs/docsnap/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Compare documents as they are written into a directory",
	Long: `Watch a directory (default: the current one) and compare every DOCX
document written into it once it has stopped changing. Point it at the
download directory of a browser test run.

Each document is compared with its default baseline. When stopped, the
command exits non-zero if any comparison mismatched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addPatternsFlag(watchCmd)
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a file is compared")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := snapshotServiceFor(cmd)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("getting debounce flag: %w", err)
	}
	if debounce <= 0 {
		return fmt.Errorf("debounce must be positive: %w", domain.ErrInvalidInput)
	}

	s := stylesFor(cmd)
	var compared, mismatched, failed int
	handler := func(ev watch.Event) {
		compared++
		if ev.Err != nil {
			failed++
			cmd.PrintErrf("%s %s: %v\n", s.Error.Render("error     "), ev.Path, ev.Err)
			return
		}
		if !ev.Result.Success {
			mismatched++
		}
		printResult(cmd, s, ev.Path, ev.Result, true)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	start := time.Now()
	w := watch.New(svc, dir, handler, watch.WithDebounce(debounce))
	if err := w.Run(cmd.Context()); err != nil {
		return err
	}

	cmd.Printf("%d compared, %d mismatched, %d failed in %s\n",
		compared, mismatched, failed, time.Since(start).Round(time.Second))
	if mismatched > 0 || failed > 0 {
		return fmt.Errorf("%d of %d documents did not match: %w", mismatched+failed, compared, domain.ErrSnapshotMismatch)
	}
	return nil
}
