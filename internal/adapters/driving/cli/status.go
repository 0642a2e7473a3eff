package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store contents, index freshness and service health",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	report, err := statusService.Report(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputStatusText(cmd, report)
	return nil
}

func outputStatusText(cmd *cobra.Command, report *domain.HealthReport) {
	cmd.Printf("Store:      %s\n", report.StorePath)
	cmd.Printf("Documents:  %d\n", report.Documents)
	cmd.Printf("Chunks:     %d\n", report.Chunks)

	freshness := "stale (rebuilt on next query)"
	if report.IndexFresh {
		freshness = "fresh"
	}
	cmd.Printf("Index:      %s", freshness)
	if !report.IndexBuiltAt.IsZero() {
		cmd.Printf(", built %s", report.IndexBuiltAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Println()

	cmd.Printf("Embedding:  %s %s\n", report.EmbeddingModel, reachability(report.EmbeddingReachable, report.EmbeddingError))
	cmd.Printf("Generation: %s %s\n", report.GenerationModel, reachability(report.GenerationReachable, report.GenerationError))
}

func reachability(ok bool, reason string) string {
	if ok {
		return "(reachable)"
	}
	return fmt.Sprintf("(unreachable: %s)", reason)
}
