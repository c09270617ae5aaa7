package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewRecursiveChunker(t *testing.T) {
	if _, err := NewRecursiveChunker(RecursiveParams{MaxChunkSize: 0, MinChunkSize: 1}); !errors.Is(err, ErrInvalidMaxChunkSize) {
		t.Errorf("expected ErrInvalidMaxChunkSize, got %v", err)
	}
	if _, err := NewRecursiveChunker(RecursiveParams{MaxChunkSize: 10, MinChunkSize: 0}); !errors.Is(err, ErrInvalidMinChunkSize) {
		t.Errorf("expected ErrInvalidMinChunkSize, got %v", err)
	}
}

func TestRecursiveChunker_ChunkText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		params RecursiveParams
		want   []string
	}{
		{
			name:   "fits in one chunk",
			text:   "short text",
			params: RecursiveParams{MaxChunkSize: 10, MinChunkSize: 2},
			want:   []string{"short text"},
		},
		{
			name:   "undersized half keeps text whole",
			text:   "abcdefghi", // 2*5-1 runes
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 5},
			want:   []string{"abcdefghi"},
		},
		{
			name:   "even bisection",
			text:   "abcdefghijklmnop",
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 2},
			want:   []string{"abcd", "efgh", "ijkl", "mnop"},
		},
		{
			name:   "odd length puts extra rune right",
			text:   "abcde",
			params: RecursiveParams{MaxChunkSize: 3, MinChunkSize: 1},
			want:   []string{"ab", "cde"},
		},
		{
			name:   "stops at second level",
			text:   "abcdefgh",
			params: RecursiveParams{MaxChunkSize: 2, MinChunkSize: 2},
			want:   []string{"ab", "cd", "ef", "gh"},
		},
		{
			name:   "stops early when quarters too small",
			text:   "abcdefgh",
			params: RecursiveParams{MaxChunkSize: 2, MinChunkSize: 3},
			want:   []string{"abcd", "efgh"},
		},
		{
			name:   "splits on runes",
			text:   "ééééàààà",
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 1},
			want:   []string{"éééé", "àààà"},
		},
		{
			name:   "pieces are trimmed",
			text:   "abc  def",
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 1},
			want:   []string{"abc", "def"},
		},
		{
			name:   "whitespace-only piece dropped",
			text:   "ab      ",
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 1},
			want:   []string{"ab"},
		},
		{
			name:   "empty",
			text:   "",
			params: RecursiveParams{MaxChunkSize: 4, MinChunkSize: 1},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewRecursiveChunker(tt.params)
			if err != nil {
				t.Fatalf("failed to create chunker: %v", err)
			}
			chunks, err := c.ChunkText(tt.text)
			if err != nil {
				t.Fatalf("ChunkText() error = %v", err)
			}
			if !reflect.DeepEqual(Texts(chunks), tt.want) {
				t.Errorf("got %q, want %q", Texts(chunks), tt.want)
			}
			assertChunks(t, chunks)
		})
	}
}

func TestRecursiveChunker_Coverage(t *testing.T) {
	text := strings.Repeat("0123456789", 1000)
	c, _ := NewRecursiveChunker(RecursiveParams{MaxChunkSize: 64, MinChunkSize: 16})
	chunks, err := c.ChunkText(text)
	if err != nil {
		t.Fatalf("ChunkText() error = %v", err)
	}

	var b strings.Builder
	next := 0
	for i, chunk := range chunks {
		if chunk.Start != next {
			t.Fatalf("chunk %d starts at %d, want %d", i, chunk.Start, next)
		}
		if len(chunk.Text) > 64 {
			t.Errorf("chunk %d has %d runes, exceeds 64", i, len(chunk.Text))
		}
		b.WriteString(chunk.Text)
		next = chunk.End
	}
	if b.String() != text {
		t.Error("chunks do not reconstruct the input")
	}
}

func TestRecursiveChunker_DeepInput(t *testing.T) {
	text := strings.Repeat("x", 1<<16)
	c, _ := NewRecursiveChunker(RecursiveParams{MaxChunkSize: 1, MinChunkSize: 1})
	chunks, err := c.ChunkText(text)
	if err != nil {
		t.Fatalf("ChunkText() error = %v", err)
	}
	if len(chunks) != 1<<16 {
		t.Errorf("expected %d chunks, got %d", 1<<16, len(chunks))
	}
}
