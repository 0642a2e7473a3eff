package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/corposearch/docqa-cli/internal/adapters/driving/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive question-answering session",
	Long: `Launches a terminal session for asking questions about the indexed
documents.

Controls:
  Enter     - Ask the question
  ↑/↓, PgUp - Scroll the answer
  Esc       - Quit
  Ctrl+C/D  - Quit`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(_ *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	model := tui.New(queryService)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
