package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Print the normalised content of a document",
	Long: `Extract the main markup part of a DOCX document, strip date fields and
print the canonical text that compare would check. Nothing is written to
the baseline store.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	addPatternsFlag(extractCmd)
	extractCmd.Flags().StringP("output", "o", "", "Write the content to a file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	svc, err := snapshotServiceFor(cmd)
	if err != nil {
		return err
	}

	content, err := svc.ExtractDocumentContent(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("getting output flag: %w", err)
	}
	if output == "" {
		cmd.Print(content)
		return nil
	}

	if err := os.WriteFile(output, []byte(content), 0o644); err != nil { //nolint:gosec // content is not secret
		return fmt.Errorf("writing %s: %w", output, err)
	}
	cmd.Printf("wrote %s\n", output)
	return nil
}
