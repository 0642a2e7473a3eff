// Command docqa indexes PDF documents and answers questions about them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	configfile "github.com/corposearch/docqa-cli/internal/adapters/driven/config/file"
	"github.com/corposearch/docqa-cli/internal/adapters/driven/embedding/openai"
	"github.com/corposearch/docqa-cli/internal/adapters/driven/extract/pdftotext"
	"github.com/corposearch/docqa-cli/internal/adapters/driven/llm/gemini"
	"github.com/corposearch/docqa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/corposearch/docqa-cli/internal/adapters/driving/cli"
	"github.com/corposearch/docqa-cli/internal/chunker"
	"github.com/corposearch/docqa-cli/internal/core/services"
	"github.com/corposearch/docqa-cli/internal/index"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	// Load .env if present; real environment still wins
	_ = godotenv.Load()

	cli.SetInitializer(buildServices)

	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices constructs the adapters and wires the services into the
// CLI. Called once flags are parsed so --config takes effect.
func buildServices(configPath string) error {
	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Documents.DataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	embedder, err := openai.NewEmbeddingService(openai.Config{
		APIKey:            cfg.Embedding.APIKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		Timeout:           cfg.EmbeddingTimeout(),
		Dimensions:        cfg.Embedding.Dimensions,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	generator, err := gemini.NewGenerationService(gemini.Config{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: cfg.GenerationTimeout(),
	})
	if err != nil {
		return err
	}

	splitter, err := chunker.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	extractor := pdftotext.New()
	if err := pdftotext.CheckAvailable(); err != nil {
		fmt.Fprintln(os.Stderr, pdftotext.InstallInstructions())
	}

	idx := index.New()

	ingest := services.NewIngestService(store, embedder, extractor, splitter,
		cfg.Documents.Dir, cfg.Documents.Workers)
	query := services.NewQueryService(store, embedder, generator, idx, services.QueryOptions{
		TopK:            cfg.Retrieval.TopK,
		MaxTokens:       cfg.Generation.MaxTokens,
		Temperature:     cfg.Generation.Temperature,
		MaxContextChars: cfg.Retrieval.MaxContextChars,
	})
	status := services.NewStatusService(store, embedder, generator, idx, store.Path())

	cli.SetServices(ingest, query, status)
	return nil
}
