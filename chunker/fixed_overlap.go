package chunker

import (
	"fmt"
	"strings"
)

// FixedOverlapChunker implements the Chunker interface using fixed-size word
// windows with overlap between consecutive windows.
type FixedOverlapChunker struct {
	params FixedOverlapParams
}

var _ Chunker = (*FixedOverlapChunker)(nil)

// NewFixedOverlapChunker creates a new FixedOverlapChunker with the given parameters.
// Overlap must be smaller than ChunkSize, otherwise the window would never advance.
func NewFixedOverlapChunker(params FixedOverlapParams) (*FixedOverlapChunker, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk config: %w", err)
	}
	return &FixedOverlapChunker{params: params}, nil
}

// Strategy reports FixedSizeOverlap.
func (c *FixedOverlapChunker) Strategy() ChunkStrategy { return FixedSizeOverlap }

// ChunkText splits text into whitespace-delimited words and emits windows of
// ChunkSize words, advancing by ChunkSize-Overlap. The last window is the first
// one that reaches the final word. Start and End are word indices.
func (c *FixedOverlapChunker) ChunkText(text string) ([]Chunk, error) {
	words := strings.Fields(text)
	total := len(words)
	if total == 0 {
		return nil, nil
	}

	stride := c.params.ChunkSize - c.params.Overlap

	var chunks []Chunk
	for start := 0; start < total; start += stride {
		end := min(start+c.params.ChunkSize, total)

		chunks = append(chunks, Chunk{
			Text:  strings.Join(words[start:end], " "),
			Index: len(chunks),
			Start: start,
			End:   end,
		})

		// If we've reached the end, stop
		if end >= total {
			break
		}
	}
	return chunks, nil
}
