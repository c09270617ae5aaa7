// Package chunkkit splits text into retrieval-sized chunks using one of six
// strategies: paragraph-aware or fixed-budget sentence aggregation, recursive
// bisection, overlapping word windows, sentence-count windows, and subword-token
// windows.
package chunkkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/options"
	"github.com/botirk38/chunkkit/vocab"
)

// Splitter chunks documents with a configured strategy. It is safe for concurrent use.
type Splitter struct {
	chunker     chunker.Chunker
	logger      logger.Logger
	concurrency int
}

// Document is one input to a batch.
type Document struct {
	Source string
	Text   string
}

// New creates a Splitter with functional options. Token chunking without an
// explicit vocabulary loads the named one through the registry.
func New(opts ...options.Option) (*Splitter, error) {
	return NewContext(context.Background(), opts...)
}

// NewContext is New with a context bounding the vocabulary load.
func NewContext(ctx context.Context, opts ...options.Option) (*Splitter, error) {
	cfg := options.NewConfig()

	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := chunker.Deps{Splitter: cfg.Splitter, Vocabulary: cfg.Vocabulary}
	if cfg.Params.Strategy() == chunker.TokenBased && deps.Vocabulary == nil {
		registry := cfg.Registry
		if registry == nil {
			registry = vocab.Default()
		}
		v, err := registry.Get(ctx, cfg.VocabularyName)
		if err != nil {
			return nil, err
		}
		deps.Vocabulary = v
	}

	c, err := chunker.New(cfg.Params, deps)
	if err != nil {
		return nil, err
	}
	return NewSplitter(c, cfg.Logger, cfg.Concurrency)
}

// NewSplitter wraps an existing chunker.
func NewSplitter(c chunker.Chunker, l logger.Logger, concurrency int) (*Splitter, error) {
	if c == nil {
		return nil, errors.New("chunker cannot be nil")
	}
	if l == nil {
		l = logger.NewNop()
	}
	if concurrency <= 0 {
		return nil, errors.New("concurrency must be positive")
	}
	l = l.With("strategy", c.Strategy())
	if tc, ok := c.(*chunker.TokenChunker); ok {
		l = l.With("vocabulary", tc.Vocabulary().Name())
	}
	return &Splitter{
		chunker:     c,
		logger:      l,
		concurrency: concurrency,
	}, nil
}

// Strategy reports the configured strategy.
func (s *Splitter) Strategy() chunker.ChunkStrategy {
	return s.chunker.Strategy()
}

// Chunker returns the underlying chunker.
func (s *Splitter) Chunker() chunker.Chunker {
	return s.chunker
}

// Chunk splits text into chunks.
func (s *Splitter) Chunk(ctx context.Context, text string) ([]chunker.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	chunks, err := s.chunker.ChunkText(text)
	if err != nil {
		s.logger.Error("chunking failed", "error", err)
		return nil, err
	}
	s.logger.Debug("chunked text", "runes", len([]rune(text)), "chunks", len(chunks), "elapsed", time.Since(started))
	return chunks, nil
}

// ChunkBatch chunks docs concurrently. Results are in input order; the first
// error cancels the remaining work.
func (s *Splitter) ChunkBatch(ctx context.Context, docs []Document) ([][]chunker.Chunk, error) {
	results := make([][]chunker.Chunk, len(docs))
	if len(docs) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			chunks, err := s.Chunk(ctx, doc.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Source, err)
			}
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Info("batch chunked", "documents", len(docs))
	return results, nil
}

// ChunkResult holds the result of an async Chunk operation.
type ChunkResult struct {
	Chunks []chunker.Chunk
	Error  error
}

// ChunkAsync chunks text asynchronously.
// Returns a channel that will receive the result when complete.
func (s *Splitter) ChunkAsync(ctx context.Context, text string) <-chan ChunkResult {
	resultCh := make(chan ChunkResult, 1)
	go func() {
		defer close(resultCh)
		chunks, err := s.Chunk(ctx, text)
		resultCh <- ChunkResult{Chunks: chunks, Error: err}
	}()
	return resultCh
}

// BatchResult holds the result of an async ChunkBatch operation.
type BatchResult struct {
	Chunks [][]chunker.Chunk
	Error  error
}

// ChunkBatchAsync chunks docs asynchronously.
// Returns a channel that will receive the result when complete.
func (s *Splitter) ChunkBatchAsync(ctx context.Context, docs []Document) <-chan BatchResult {
	resultCh := make(chan BatchResult, 1)
	go func() {
		defer close(resultCh)
		chunks, err := s.ChunkBatch(ctx, docs)
		resultCh <- BatchResult{Chunks: chunks, Error: err}
	}()
	return resultCh
}
