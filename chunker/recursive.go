package chunker

import (
	"fmt"
	"strings"
)

// RecursiveChunker bisects text at its rune midpoint until every piece is at
// most MaxChunkSize runes long. A piece whose halves would fall under
// MinChunkSize is kept whole, even when it exceeds MaxChunkSize.
type RecursiveChunker struct {
	params RecursiveParams
}

var _ Chunker = (*RecursiveChunker)(nil)

// NewRecursiveChunker creates a RecursiveChunker.
func NewRecursiveChunker(params RecursiveParams) (*RecursiveChunker, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk config: %w", err)
	}
	return &RecursiveChunker{params: params}, nil
}

// Strategy reports Recursive.
func (c *RecursiveChunker) Strategy() ChunkStrategy { return Recursive }

type span struct{ start, end int }

// ChunkText bisects text left to right. Start and End are rune offsets into
// text. Split points ignore word and sentence boundaries.
func (c *RecursiveChunker) ChunkText(text string) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	runes := []rune(text)

	var chunks []Chunk
	emit := func(s span) {
		piece := strings.TrimSpace(string(runes[s.start:s.end]))
		if piece == "" {
			return
		}
		chunks = append(chunks, Chunk{Text: piece, Index: len(chunks), Start: s.start, End: s.end})
	}

	// Explicit LIFO stack; the right half is pushed first so the left half
	// is processed first.
	stack := []span{{0, len(runes)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := s.end - s.start
		if n <= c.params.MaxChunkSize {
			emit(s)
			continue
		}
		mid := s.start + n/2
		if mid-s.start < c.params.MinChunkSize || s.end-mid < c.params.MinChunkSize {
			emit(s)
			continue
		}
		stack = append(stack, span{mid, s.end}, span{s.start, mid})
	}
	return chunks, nil
}
