package cli

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <document>",
	Short: "Overwrite a document's baseline",
	Long: `Write the document's current normalised content as its baseline,
replacing any existing one.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	addSnapshotFlag(updateCmd)
	addPatternsFlag(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	svc, err := snapshotServiceFor(cmd)
	if err != nil {
		return err
	}

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	record, err := svc.UpdateSnapshot(cmd.Context(), args[0], snapshotPath)
	if err != nil {
		return err
	}

	cmd.Printf("updated %s\n", record.Path)
	return nil
}
