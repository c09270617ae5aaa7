package options

import (
	"errors"
	"testing"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/types"
	"github.com/botirk38/chunkkit/vocab"
)

type stubVocabulary struct{}

func (stubVocabulary) Name() string { return "stub" }
func (stubVocabulary) Tokenize(string) ([]types.Token, error) { return nil, nil }
func (stubVocabulary) Detokenize([]types.Token) (string, error) { return "", nil }

func TestConfigCreation(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := NewConfig()
		if cfg.Params == nil || cfg.Params.Strategy() != chunker.DocumentBased {
			t.Errorf("Expected document strategy by default, got %v", cfg.Params)
		}
		if cfg.VocabularyName != vocab.DefaultVocabulary {
			t.Errorf("Expected default vocabulary %q, got %q", vocab.DefaultVocabulary, cfg.VocabularyName)
		}
		if cfg.Concurrency <= 0 {
			t.Error("Expected positive default concurrency")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected default config to be valid, got: %v", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Params = nil
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for missing strategy")
		}

		cfg = NewConfig()
		cfg.Params = chunker.FixedOverlapParams{ChunkSize: 3, Overlap: 3}
		if err := cfg.Validate(); !errors.Is(err, chunker.ErrOverlapTooLarge) {
			t.Errorf("Expected ErrOverlapTooLarge, got: %v", err)
		}

		cfg = NewConfig()
		cfg.Params = chunker.TokenParams{MaxTokens: 8}
		cfg.VocabularyName = ""
		if err := cfg.Validate(); !errors.Is(err, chunker.ErrVocabularyRequired) {
			t.Errorf("Expected ErrVocabularyRequired, got: %v", err)
		}
	})
}

func TestStrategyOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		want    chunker.Params
		wantErr error
	}{
		{name: "document", opt: WithDocumentBased(), want: chunker.DocumentParams{}},
		{name: "fixed size", opt: WithFixedSize(40), want: chunker.FixedSizeParams{ChunkSize: 40}},
		{name: "fixed size invalid", opt: WithFixedSize(0), wantErr: chunker.ErrInvalidChunkSize},
		{name: "recursive", opt: WithRecursive(100, 10), want: chunker.RecursiveParams{MaxChunkSize: 100, MinChunkSize: 10}},
		{name: "recursive invalid min", opt: WithRecursive(100, 0), wantErr: chunker.ErrInvalidMinChunkSize},
		{name: "overlap", opt: WithFixedSizeOverlap(5, 2), want: chunker.FixedOverlapParams{ChunkSize: 5, Overlap: 2}},
		{name: "overlap negative", opt: WithFixedSizeOverlap(5, -1), wantErr: chunker.ErrInvalidOverlap},
		{name: "sentence", opt: WithSentenceBased(3), want: chunker.SentenceParams{MaxSentences: 3}},
		{name: "sentence invalid", opt: WithSentenceBased(-2), wantErr: chunker.ErrInvalidMaxSentences},
		{name: "token", opt: WithTokenBased(64), want: chunker.TokenParams{MaxTokens: 64}},
		{name: "token invalid", opt: WithTokenBased(0), wantErr: chunker.ErrInvalidMaxTokens},
		{name: "params", opt: WithParams(chunker.SentenceParams{MaxSentences: 1}), want: chunker.SentenceParams{MaxSentences: 1}},
		{
			name: "chunk config",
			opt:  WithChunkConfig(chunker.ChunkConfig{Strategy: chunker.Recursive, MaxChunkSize: 9, MinChunkSize: 2}),
			want: chunker.RecursiveParams{MaxChunkSize: 9, MinChunkSize: 2},
		},
		{name: "chunk config unknown", opt: WithChunkConfig(chunker.ChunkConfig{Strategy: "semantic"}), wantErr: chunker.ErrUnsupportedStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			err := cfg.Apply(tt.opt)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if !errors.Is(err, chunker.ErrInvalidConfiguration) {
					t.Errorf("Expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to apply option: %v", err)
			}
			if cfg.Params != tt.want {
				t.Errorf("Expected params %#v, got %#v", tt.want, cfg.Params)
			}
		})
	}
}

func TestOptionsRejectNil(t *testing.T) {
	opts := map[string]Option{
		"params":     WithParams(nil),
		"splitter":   WithSplitter(nil),
		"vocabulary": WithVocabulary(nil),
		"name":       WithVocabularyName(""),
		"registry":   WithRegistry(nil),
		"logger":     WithLogger(nil),
		"concurrent": WithConcurrency(0),
	}
	for name, opt := range opts {
		t.Run(name, func(t *testing.T) {
			if err := NewConfig().Apply(opt); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestDependencyOptions(t *testing.T) {
	registry, err := vocab.NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	splitter := segment.NewSentenceSplitter()

	cfg := NewConfig()
	err = cfg.Apply(
		WithTokenBased(16),
		WithVocabulary(stubVocabulary{}),
		WithRegistry(registry),
		WithSplitter(splitter),
		WithLogger(logger.NewNop()),
		WithConcurrency(2),
	)
	if err != nil {
		t.Fatalf("Failed to apply options: %v", err)
	}
	if cfg.Vocabulary == nil || cfg.Registry != registry || cfg.Splitter != splitter || cfg.Concurrency != 2 {
		t.Errorf("Options not applied: %+v", cfg)
	}

	// Naming a vocabulary replaces a loaded one
	if err := cfg.Apply(WithVocabularyName("wordpiece:/tmp/vocab.txt")); err != nil {
		t.Fatalf("Failed to apply option: %v", err)
	}
	if cfg.Vocabulary != nil || cfg.VocabularyName != "wordpiece:/tmp/vocab.txt" {
		t.Errorf("Expected vocabulary name to replace the loaded vocabulary")
	}

	if err := cfg.Apply(WithSentenceOptions(segment.WithoutAbbreviations())); err != nil {
		t.Fatalf("Failed to apply option: %v", err)
	}
	if cfg.Splitter == splitter {
		t.Error("Expected a new splitter")
	}
}
