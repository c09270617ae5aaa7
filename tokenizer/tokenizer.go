// Package tokenizer counts how many tokens a model sees for a chunk of text.
package tokenizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/botirk38/chunkkit/chunker"
)

// Counter counts tokens in text for one model family.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Kind selects a Counter implementation
type Kind string

const (
	KindTiktoken  Kind = "tiktoken"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
)

const (
	DefaultEncoding       = "cl100k_base"
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"
	DefaultGeminiModel    = "gemini-2.0-flash"
)

// ErrUnsupportedKind indicates an unknown counter kind
var ErrUnsupportedKind = errors.New("unsupported token counter")

// Config configures NewCounter. Fields not used by Kind are ignored.
type Config struct {
	Kind Kind

	// Encoding is the tiktoken encoding name
	Encoding string

	// Model is the remote model whose tokenizer is used
	Model string

	// APIKey and BaseURL configure remote counters. An empty APIKey falls
	// back to the SDK's environment variable.
	APIKey  string
	BaseURL string
}

// NewCounter creates a Counter for cfg.Kind.
func NewCounter(ctx context.Context, cfg Config) (Counter, error) {
	switch cfg.Kind {
	case KindTiktoken, "":
		enc := cfg.Encoding
		if enc == "" {
			enc = DefaultEncoding
		}
		c, err := NewTiktokenCounter(enc)
		if err != nil {
			return nil, err
		}
		return c, nil

	case KindAnthropic:
		var opts []anthropicoption.RequestOption
		if cfg.APIKey != "" {
			opts = append(opts, anthropicoption.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
		}
		client := anthropic.NewClient(opts...)
		return NewAnthropicTokenizer(&client, cfg.Model), nil

	case KindGemini:
		clientConfig := &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.BaseURL != "" {
			clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
		}
		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		model := cfg.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		return NewGeminiTokenizer(client, model), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, cfg.Kind)
	}
}

// CountChunks counts the tokens of each chunk, issuing at most limit
// requests at once. Counts are returned in chunk order.
func CountChunks(ctx context.Context, c Counter, chunks []chunker.Chunk, limit int) ([]int, error) {
	counts := make([]int, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			n, err := c.CountTokens(ctx, chunk.Text)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.Index, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
