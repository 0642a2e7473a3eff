package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all indexed documents and chunks",
	Long: `Removes every document and chunk from the local store. The source
PDF files are untouched; run 'docqa index' to rebuild.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if !clearYes {
		cmd.Print("Delete all indexed documents? [y/N] ")
		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	removed, err := ingestService.Clear(context.Background())
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Printf("Removed %d documents.\n", removed)
	return nil
}
