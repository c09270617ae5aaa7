package chunker

import (
	"fmt"
	"strings"

	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/types"
)

// SentenceChunker groups up to MaxSentences consecutive sentences per chunk.
type SentenceChunker struct {
	params   SentenceParams
	splitter types.SentenceSplitter
}

var _ Chunker = (*SentenceChunker)(nil)

// NewSentenceChunker creates a SentenceChunker. A nil splitter selects the
// default UAX #29 sentence splitter.
func NewSentenceChunker(params SentenceParams, splitter types.SentenceSplitter) (*SentenceChunker, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk config: %w", err)
	}
	if splitter == nil {
		splitter = segment.NewSentenceSplitter()
	}
	return &SentenceChunker{params: params, splitter: splitter}, nil
}

// Strategy reports SentenceBased.
func (c *SentenceChunker) Strategy() ChunkStrategy { return SentenceBased }

// ChunkText joins each group of sentences with single spaces. Start and End
// are sentence indices.
func (c *SentenceChunker) ChunkText(text string) ([]Chunk, error) {
	sentences := c.splitter.Split(text)

	var chunks []Chunk
	for start := 0; start < len(sentences); start += c.params.MaxSentences {
		end := min(start+c.params.MaxSentences, len(sentences))
		joined := strings.TrimSpace(strings.Join(sentences[start:end], " "))
		if joined == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: joined, Index: len(chunks), Start: start, End: end})
	}
	return chunks, nil
}
