// Package cli implements the docqa command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/corposearch/docqa-cli/internal/core/ports/driving"
	"github.com/corposearch/docqa-cli/internal/logger"
)

// version is set by Execute.
var version = "dev"

// Services wired in by main (or tests) before Execute.
var (
	ingestService driving.Ingestor
	queryService  driving.Answerer
	statusService driving.StatusReporter
)

// initializer builds the services once flags are parsed, so --config
// takes effect. Set by main; tests wire services directly instead.
var initializer func(configPath string) error

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your PDF documents",
	Long: `docqa indexes a directory of PDF documents and answers questions
about their content. Documents are chunked, embedded and stored locally;
questions retrieve the most relevant passages and a language model
generates an answer grounded in them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if initializer != nil {
			return initializer(configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.docqa/config.toml)")
}

// SetServices wires the driving services into the commands.
func SetServices(ingest driving.Ingestor, query driving.Answerer, status driving.StatusReporter) {
	ingestService = ingest
	queryService = query
	statusService = status
}

// SetInitializer registers the deferred service construction hook.
func SetInitializer(fn func(configPath string) error) {
	initializer = fn
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
