// Package options provides functional options for configuring chunkkit Splitters.
package options

import (
	"errors"
	"runtime"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/types"
	"github.com/botirk38/chunkkit/vocab"
)

// Option represents a configuration option for a Splitter
type Option func(*Config) error

// Config holds the configuration for building a Splitter
type Config struct {
	// Params selects the strategy and carries its parameters
	Params chunker.Params

	Splitter types.SentenceSplitter

	// Vocabulary, when set, is used as-is by token chunking. Otherwise
	// VocabularyName is resolved through Registry.
	Vocabulary     types.Vocabulary
	VocabularyName string
	Registry       *vocab.Registry

	Logger logger.Logger

	// Concurrency bounds how many documents a batch chunks at once
	Concurrency int
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Params:         chunker.DocumentParams{},
		VocabularyName: vocab.DefaultVocabulary,
		Logger:         logger.NewNop(),
		Concurrency:    runtime.GOMAXPROCS(0),
	}
}

// Apply applies all the given options to the config
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Params == nil {
		return errors.New("chunking strategy is required - use WithFixedSize, WithRecursive, etc.")
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	if c.Params.Strategy() == chunker.TokenBased && c.Vocabulary == nil && c.VocabularyName == "" {
		return chunker.ErrVocabularyRequired
	}
	return nil
}

func withParams(p chunker.Params) Option {
	return func(cfg *Config) error {
		if err := p.Validate(); err != nil {
			return err
		}
		cfg.Params = p
		return nil
	}
}

// WithDocumentBased aggregates sentences within paragraphs up to chunker.DocumentBudget runes
func WithDocumentBased() Option {
	return withParams(chunker.DocumentParams{})
}

// WithFixedSize aggregates sentences up to chunkSize runes per chunk
func WithFixedSize(chunkSize int) Option {
	return withParams(chunker.FixedSizeParams{ChunkSize: chunkSize})
}

// WithRecursive bisects text until every piece fits maxChunkSize runes
func WithRecursive(maxChunkSize, minChunkSize int) Option {
	return withParams(chunker.RecursiveParams{MaxChunkSize: maxChunkSize, MinChunkSize: minChunkSize})
}

// WithFixedSizeOverlap windows over words, repeating overlap words between windows
func WithFixedSizeOverlap(chunkSize, overlap int) Option {
	return withParams(chunker.FixedOverlapParams{ChunkSize: chunkSize, Overlap: overlap})
}

// WithSentenceBased groups maxSentences sentences per chunk
func WithSentenceBased(maxSentences int) Option {
	return withParams(chunker.SentenceParams{MaxSentences: maxSentences})
}

// WithTokenBased windows over maxTokens subword tokens
func WithTokenBased(maxTokens int) Option {
	return withParams(chunker.TokenParams{MaxTokens: maxTokens})
}

// WithParams sets pre-built strategy parameters
func WithParams(p chunker.Params) Option {
	return func(cfg *Config) error {
		if p == nil {
			return errors.New("params cannot be nil")
		}
		return withParams(p)(cfg)
	}
}

// WithChunkConfig selects the strategy named by a flat configuration
func WithChunkConfig(c chunker.ChunkConfig) Option {
	return func(cfg *Config) error {
		p, err := c.Params()
		if err != nil {
			return err
		}
		return withParams(p)(cfg)
	}
}

// WithSplitter allows using a custom sentence splitter
func WithSplitter(s types.SentenceSplitter) Option {
	return func(cfg *Config) error {
		if s == nil {
			return errors.New("splitter cannot be nil")
		}
		cfg.Splitter = s
		return nil
	}
}

// WithSentenceOptions configures the default sentence splitter
func WithSentenceOptions(opts ...segment.Option) Option {
	return func(cfg *Config) error {
		cfg.Splitter = segment.NewSentenceSplitter(opts...)
		return nil
	}
}

// WithVocabulary sets a loaded vocabulary for token chunking
func WithVocabulary(v types.Vocabulary) Option {
	return func(cfg *Config) error {
		if v == nil {
			return errors.New("vocabulary cannot be nil")
		}
		cfg.Vocabulary = v
		return nil
	}
}

// WithVocabularyName selects a vocabulary by reference, e.g. "tiktoken:cl100k_base"
func WithVocabularyName(name string) Option {
	return func(cfg *Config) error {
		if name == "" {
			return errors.New("vocabulary name cannot be empty")
		}
		cfg.Vocabulary = nil
		cfg.VocabularyName = name
		return nil
	}
}

// WithRegistry sets the registry used to resolve vocabulary names
func WithRegistry(r *vocab.Registry) Option {
	return func(cfg *Config) error {
		if r == nil {
			return errors.New("registry cannot be nil")
		}
		cfg.Registry = r
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(cfg *Config) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.Logger = l
		return nil
	}
}

// WithConcurrency bounds concurrent chunking in batches
func WithConcurrency(n int) Option {
	return func(cfg *Config) error {
		if n <= 0 {
			return errors.New("concurrency must be positive")
		}
		cfg.Concurrency = n
		return nil
	}
}
