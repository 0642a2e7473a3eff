package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Answers a question using the indexed documents. The most relevant
passages are retrieved and a language model generates an answer grounded
in them, with source attributions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of passages to retrieve (0 = configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.Join(args, " ")

	answer, err := queryService.Ask(context.Background(), question, queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	if !answer.Success {
		cmd.Printf("Could not answer: %s\n", answer.Error)
		return nil
	}

	cmd.Println(answer.Text)

	if answer.ContextFree {
		cmd.Println()
		cmd.Println("Note: no relevant passages were found; the answer was generated without document context.")
		return nil
	}

	if len(answer.Context) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, passage := range answer.Context {
			cmd.Printf("  [%d] %s (%.3f)\n", i+1, passage.Source, passage.Score)
		}
	}
	return nil
}
