package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	indexForce bool
	indexWatch bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index PDF documents from the configured directory",
	Long: `Scans the document directory and indexes new or changed PDF files.
Unchanged documents (same content hash) are skipped. With --force every
document is re-extracted, re-chunked and re-embedded. With --watch the
command keeps running and re-indexes whenever the directory changes.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "re-index all documents, ignoring content hashes")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep running and re-index on changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	cmd.Println("Indexing documents...")
	summary, err := ingestService.IngestDirectory(ctx, indexForce)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d documents (%d chunks), %d unchanged, %d removed.\n",
		summary.Processed, summary.ChunksStored, summary.Skipped, summary.Removed)
	if summary.Failed > 0 {
		cmd.Printf("%d documents failed:\n", summary.Failed)
		for path, reason := range summary.Failures {
			cmd.Printf("  %s: %s\n", path, reason)
		}
	}

	if !indexWatch {
		return nil
	}

	watchCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	if err := ingestService.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
