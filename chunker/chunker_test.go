package chunker

import (
	"errors"
	"testing"
)

func TestDefaultChunkConfig(t *testing.T) {
	config := DefaultChunkConfig()

	if config.Strategy != DocumentBased {
		t.Errorf("expected Strategy=DocumentBased, got %s", config.Strategy)
	}
	if config.ChunkSize != 200 {
		t.Errorf("expected ChunkSize=200, got %d", config.ChunkSize)
	}
	if config.ChunkOverlap != 20 {
		t.Errorf("expected ChunkOverlap=20, got %d", config.ChunkOverlap)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestChunkConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ChunkConfig
		wantErr error
	}{
		{
			name:    "document needs nothing",
			config:  ChunkConfig{Strategy: DocumentBased},
			wantErr: nil,
		},
		{
			name:    "fixed size valid",
			config:  ChunkConfig{Strategy: FixedSize, ChunkSize: 100},
			wantErr: nil,
		},
		{
			name:    "fixed size zero",
			config:  ChunkConfig{Strategy: FixedSize, ChunkSize: 0},
			wantErr: ErrInvalidChunkSize,
		},
		{
			name:    "recursive max zero",
			config:  ChunkConfig{Strategy: Recursive, MaxChunkSize: 0, MinChunkSize: 10},
			wantErr: ErrInvalidMaxChunkSize,
		},
		{
			name:    "recursive min negative",
			config:  ChunkConfig{Strategy: Recursive, MaxChunkSize: 100, MinChunkSize: -1},
			wantErr: ErrInvalidMinChunkSize,
		},
		{
			name:    "overlap negative",
			config:  ChunkConfig{Strategy: FixedSizeOverlap, ChunkSize: 10, ChunkOverlap: -1},
			wantErr: ErrInvalidOverlap,
		},
		{
			name:    "overlap equals chunk size",
			config:  ChunkConfig{Strategy: FixedSizeOverlap, ChunkSize: 3, ChunkOverlap: 3},
			wantErr: ErrOverlapTooLarge,
		},
		{
			name:    "overlap exceeds chunk size",
			config:  ChunkConfig{Strategy: FixedSizeOverlap, ChunkSize: 3, ChunkOverlap: 7},
			wantErr: ErrOverlapTooLarge,
		},
		{
			name:    "max sentences zero",
			config:  ChunkConfig{Strategy: SentenceBased},
			wantErr: ErrInvalidMaxSentences,
		},
		{
			name:    "max tokens negative",
			config:  ChunkConfig{Strategy: TokenBased, MaxTokens: -1},
			wantErr: ErrInvalidMaxTokens,
		},
		{
			name:    "unknown strategy",
			config:  ChunkConfig{Strategy: "semantic"},
			wantErr: ErrUnsupportedStrategy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected %v to wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestChunkConfig_Params(t *testing.T) {
	config := ChunkConfig{
		Strategy:     FixedSizeOverlap,
		ChunkSize:    8,
		ChunkOverlap: 2,
		MaxTokens:    99,
	}
	p, err := config.Params()
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	got, ok := p.(FixedOverlapParams)
	if !ok {
		t.Fatalf("expected FixedOverlapParams, got %T", p)
	}
	if got.ChunkSize != 8 || got.Overlap != 2 {
		t.Errorf("unexpected params: %+v", got)
	}
	if p.Strategy() != FixedSizeOverlap {
		t.Errorf("expected strategy %s, got %s", FixedSizeOverlap, p.Strategy())
	}
}

func TestNew(t *testing.T) {
	vocab := newFieldVocabulary()

	tests := []struct {
		name    string
		params  Params
		deps    Deps
		want    ChunkStrategy
		wantErr error
	}{
		{name: "document", params: DocumentParams{}, want: DocumentBased},
		{name: "fixed size", params: FixedSizeParams{ChunkSize: 50}, want: FixedSize},
		{name: "recursive", params: RecursiveParams{MaxChunkSize: 50, MinChunkSize: 10}, want: Recursive},
		{name: "fixed overlap", params: FixedOverlapParams{ChunkSize: 5, Overlap: 1}, want: FixedSizeOverlap},
		{name: "sentence", params: SentenceParams{MaxSentences: 3}, want: SentenceBased},
		{name: "token", params: TokenParams{MaxTokens: 8}, deps: Deps{Vocabulary: vocab}, want: TokenBased},
		{name: "token without vocabulary", params: TokenParams{MaxTokens: 8}, wantErr: ErrVocabularyRequired},
		{name: "invalid params", params: FixedOverlapParams{ChunkSize: 3, Overlap: 3}, wantErr: ErrOverlapTooLarge},
		{name: "nil params", params: nil, wantErr: ErrUnsupportedStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.params, tt.deps)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				if c != nil {
					t.Errorf("expected nil chunker on error, got %T", c)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if c.Strategy() != tt.want {
				t.Errorf("Strategy() = %s, want %s", c.Strategy(), tt.want)
			}
		})
	}
}

func TestStrategyUnit(t *testing.T) {
	for _, s := range Strategies {
		if s.Unit() == "" {
			t.Errorf("strategy %s has no unit", s)
		}
	}
	if ChunkStrategy("bogus").Unit() != "" {
		t.Error("unknown strategy should have no unit")
	}
}

// assertChunks checks the invariants every strategy must hold.
func assertChunks(t *testing.T, chunks []Chunk) {
	t.Helper()
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has wrong index: %d", i, c.Index)
		}
		if c.Text == "" {
			t.Errorf("chunk %d has empty text", i)
		}
		if c.End <= c.Start {
			t.Errorf("chunk %d has invalid range: %d-%d", i, c.Start, c.End)
		}
	}
}
