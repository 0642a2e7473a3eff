// Package file loads docqa configuration from a TOML file with
// environment variable overrides for secrets.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// Default configuration values. Chunking and retrieval defaults match
// the sizes that work well for prose documents.
const (
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultTopK            = 5
	DefaultMaxTokens       = 2048
	DefaultTemperature     = 0.3
	DefaultWorkers         = 4
	DefaultRequestsPerSec  = 0 // unthrottled
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultGenerationModel = "gemini-2.0-flash"
	DefaultTimeoutSeconds  = 120
)

// Config is the full docqa configuration.
type Config struct {
	Documents  DocumentsConfig  `toml:"documents"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
}

// DocumentsConfig controls document discovery and storage locations.
type DocumentsConfig struct {
	// Dir is the directory scanned for PDF files.
	Dir string `toml:"dir"`

	// DataDir holds the SQLite database. Empty means ~/.docqa/data.
	DataDir string `toml:"data_dir"`

	// Workers bounds concurrent document processing during indexing.
	Workers int `toml:"workers"`
}

// ChunkingConfig controls how extracted text is split.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls retrieval and answer shaping.
type RetrievalConfig struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int `toml:"top_k"`

	// MaxContextChars bounds the assembled prompt context. Zero means
	// no explicit bound beyond TopK.
	MaxContextChars int `toml:"max_context_chars"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// APIKey is read from OPENAI_API_KEY when empty.
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	Dimensions        int     `toml:"dimensions"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GenerationConfig configures the generation provider.
type GenerationConfig struct {
	// APIKey is read from GEMINI_API_KEY when empty.
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// DefaultPath returns the default config file location,
// ~/.docqa/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docqa", "config.toml"), nil
}

// Load reads the config file at path, fills in defaults and applies
// environment overrides. A missing file is not an error; defaults and
// environment still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrConfiguration, path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only
	default:
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrConfiguration, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment. Secrets are
// expected here rather than in the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Generation.APIKey = v
	}
	if v := os.Getenv("DOCQA_DOCUMENTS_DIR"); v != "" {
		c.Documents.Dir = v
	}
	if v := os.Getenv("DOCQA_DATA_DIR"); v != "" {
		c.Documents.DataDir = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("DOCQA_GENERATION_MODEL"); v != "" {
		c.Generation.Model = v
	}
	if v := os.Getenv("DOCQA_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retrieval.TopK = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Documents.Dir == "" {
		c.Documents.Dir = "documents"
	}
	if c.Documents.Workers <= 0 {
		c.Documents.Workers = DefaultWorkers
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = DefaultChunkSize
	}
	if c.Chunking.Overlap <= 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		c.Embedding.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Generation.Model == "" {
		c.Generation.Model = DefaultGenerationModel
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = DefaultMaxTokens
	}
	if c.Generation.Temperature <= 0 {
		c.Generation.Temperature = DefaultTemperature
	}
	if c.Generation.TimeoutSeconds <= 0 {
		c.Generation.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			domain.ErrConfiguration, c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Retrieval.MaxContextChars < 0 {
		return fmt.Errorf("%w: max_context_chars must not be negative", domain.ErrConfiguration)
	}
	return nil
}

// EmbeddingTimeout returns the embedding request timeout as a duration.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}

// GenerationTimeout returns the generation request timeout as a duration.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}
