// Package config reads the chunkkit TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/tokenizer"
	"github.com/botirk38/chunkkit/types"
	"github.com/botirk38/chunkkit/vocab"
)

type Config struct {
	Chunking struct {
		Strategy     string `toml:"strategy" validate:"oneof=document fixed_size recursive fixed_overlap sentence token"`
		ChunkSize    int    `toml:"chunk_size" validate:"gt=0"`
		ChunkOverlap int    `toml:"chunk_overlap" validate:"gte=0"`
		MaxChunkSize int    `toml:"max_chunk_size" validate:"gt=0"`
		MinChunkSize int    `toml:"min_chunk_size" validate:"gt=0"`
		MaxSentences int    `toml:"max_sentences" validate:"gt=0"`
		MaxTokens    int    `toml:"max_tokens" validate:"gt=0"`
		Concurrency  int    `toml:"concurrency" validate:"gte=0"`
	} `toml:"chunking"`
	Vocabulary struct {
		Name      string `toml:"name" validate:"vocabref"`
		CacheSize int    `toml:"cache_size" validate:"gt=0"`
	} `toml:"vocabulary"`
	Sentences struct {
		Abbreviations        []string `toml:"abbreviations"`
		DisableAbbreviations bool     `toml:"disable_abbreviations"`
	} `toml:"sentences"`
	Sink struct {
		Type     string `toml:"type" validate:"oneof=stdout dir memory redis"`
		Format   string `toml:"format" validate:"oneof=jsonl text"`
		Dir      string `toml:"dir" validate:"required_if=Type dir"`
		Clean    bool   `toml:"clean"`
		Capacity int    `toml:"capacity" validate:"gte=0"`
		Redis    struct {
			URL      string        `toml:"url"`
			Username string        `toml:"username"`
			Password string        `toml:"password"`
			DB       int           `toml:"db" validate:"gte=0"`
			Prefix   string        `toml:"prefix"`
			TTL      time.Duration `toml:"ttl" validate:"gte=0"`
		} `toml:"redis"`
	} `toml:"sink"`
	Tokens struct {
		Enabled     bool   `toml:"enabled"`
		Counter     string `toml:"counter" validate:"oneof=tiktoken anthropic gemini"`
		Encoding    string `toml:"encoding"`
		Model       string `toml:"model"`
		BaseURL     string `toml:"base_url" validate:"omitempty,url"`
		APIKeyEnv   string `toml:"api_key_env"`
		Concurrency int    `toml:"concurrency" validate:"gte=0"`
	} `toml:"tokens"`
	Log struct {
		Level string `toml:"level" validate:"oneof=debug info warn error disabled"`
		JSON  bool   `toml:"json"`
	} `toml:"log"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("vocabref", validateVocabularyRef); err != nil {
		panic(err)
	}
	return v
}

// validateVocabularyRef accepts "scheme:location" references.
func validateVocabularyRef(fl validator.FieldLevel) bool {
	scheme, location, ok := strings.Cut(fl.Field().String(), ":")
	return ok && scheme != "" && location != ""
}

// GetConfigPath returns the per-user configuration file path.
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chunkkit", "config.toml")
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	defaults := chunker.DefaultChunkConfig()

	cfg.Chunking.Strategy = string(defaults.Strategy)
	cfg.Chunking.ChunkSize = defaults.ChunkSize
	cfg.Chunking.ChunkOverlap = defaults.ChunkOverlap
	cfg.Chunking.MaxChunkSize = defaults.MaxChunkSize
	cfg.Chunking.MinChunkSize = defaults.MinChunkSize
	cfg.Chunking.MaxSentences = defaults.MaxSentences
	cfg.Chunking.MaxTokens = defaults.MaxTokens
	cfg.Chunking.Concurrency = 4
	cfg.Vocabulary.Name = vocab.DefaultVocabulary
	cfg.Vocabulary.CacheSize = 8
	cfg.Sink.Type = string(types.SinkStdout)
	cfg.Sink.Format = string(types.FormatJSONL)
	cfg.Sink.Capacity = 128
	cfg.Sink.Redis.URL = "redis://localhost:6379/0"
	cfg.Sink.Redis.Prefix = "chunkkit:"
	cfg.Tokens.Counter = string(tokenizer.KindTiktoken)
	cfg.Tokens.Encoding = tokenizer.DefaultEncoding
	cfg.Tokens.Concurrency = 4
	cfg.Log.Level = string(logger.InfoLevel)
	return &cfg
}

// Load reads the configuration at path over the defaults. An empty path
// selects GetConfigPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = GetConfigPath()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints, then the selected strategy's parameters.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := c.ChunkConfig().Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ChunkConfig returns the flat chunker configuration.
func (c *Config) ChunkConfig() chunker.ChunkConfig {
	return chunker.ChunkConfig{
		Strategy:     chunker.ChunkStrategy(c.Chunking.Strategy),
		ChunkSize:    c.Chunking.ChunkSize,
		ChunkOverlap: c.Chunking.ChunkOverlap,
		MaxChunkSize: c.Chunking.MaxChunkSize,
		MinChunkSize: c.Chunking.MinChunkSize,
		MaxSentences: c.Chunking.MaxSentences,
		MaxTokens:    c.Chunking.MaxTokens,
	}
}

// SplitterOptions returns the sentence splitter options.
func (c *Config) SplitterOptions() []segment.Option {
	var opts []segment.Option
	if c.Sentences.DisableAbbreviations {
		opts = append(opts, segment.WithoutAbbreviations())
	}
	if len(c.Sentences.Abbreviations) > 0 {
		opts = append(opts, segment.WithAbbreviations(c.Sentences.Abbreviations...))
	}
	return opts
}

// SinkConfig returns the sink type and its configuration.
func (c *Config) SinkConfig(w io.Writer) (types.SinkType, types.SinkConfig) {
	return types.SinkType(c.Sink.Type), types.SinkConfig{
		Writer:           w,
		Format:           types.SinkFormat(c.Sink.Format),
		Dir:              c.Sink.Dir,
		Clean:            c.Sink.Clean,
		Capacity:         c.Sink.Capacity,
		ConnectionString: c.Sink.Redis.URL,
		Username:         c.Sink.Redis.Username,
		Password:         c.Sink.Redis.Password,
		Database:         c.Sink.Redis.DB,
		Prefix:           c.Sink.Redis.Prefix,
		TTL:              c.Sink.Redis.TTL,
	}
}

// CounterConfig returns the token counter configuration. The API key is read
// from the environment variable named by api_key_env.
func (c *Config) CounterConfig() tokenizer.Config {
	cfg := tokenizer.Config{
		Kind:     tokenizer.Kind(c.Tokens.Counter),
		Encoding: c.Tokens.Encoding,
		Model:    c.Tokens.Model,
		BaseURL:  c.Tokens.BaseURL,
	}
	if c.Tokens.APIKeyEnv != "" {
		cfg.APIKey = os.Getenv(c.Tokens.APIKeyEnv)
	}
	return cfg
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logger.LogLevel {
	return logger.ParseLevel(c.Log.Level)
}
