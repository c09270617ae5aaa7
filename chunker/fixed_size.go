package chunker

import (
	"fmt"

	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/types"
)

// FixedSizeChunker packs the sentences of the whole text into chunks under a
// caller-supplied rune budget.
type FixedSizeChunker struct {
	params   FixedSizeParams
	splitter types.SentenceSplitter
}

var _ Chunker = (*FixedSizeChunker)(nil)

// NewFixedSizeChunker creates a FixedSizeChunker. A nil splitter selects the
// default UAX #29 sentence splitter.
func NewFixedSizeChunker(params FixedSizeParams, splitter types.SentenceSplitter) (*FixedSizeChunker, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk config: %w", err)
	}
	if splitter == nil {
		splitter = segment.NewSentenceSplitter()
	}
	return &FixedSizeChunker{params: params, splitter: splitter}, nil
}

// Strategy reports FixedSize.
func (c *FixedSizeChunker) Strategy() ChunkStrategy { return FixedSize }

// ChunkText splits text into sentence aggregates of at most ChunkSize runes.
func (c *FixedSizeChunker) ChunkText(text string) ([]Chunk, error) {
	agg := &aggregator{budget: c.params.ChunkSize}
	for i, sentence := range c.splitter.Split(text) {
		agg.add(sentence, i)
	}
	agg.flush()
	return agg.chunks, nil
}
