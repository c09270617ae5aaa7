package chunker

import (
	"github.com/botirk38/chunkkit/segment"
	"github.com/botirk38/chunkkit/types"
)

// DocumentChunker splits text into paragraphs on blank lines, then packs each
// paragraph's sentences into chunks of at most DocumentBudget runes. Chunks
// never span two paragraphs.
type DocumentChunker struct {
	splitter types.SentenceSplitter
}

var _ Chunker = (*DocumentChunker)(nil)

// NewDocumentChunker creates a DocumentChunker. A nil splitter selects the
// default UAX #29 sentence splitter.
func NewDocumentChunker(splitter types.SentenceSplitter) *DocumentChunker {
	if splitter == nil {
		splitter = segment.NewSentenceSplitter()
	}
	return &DocumentChunker{splitter: splitter}
}

// Strategy reports DocumentBased.
func (c *DocumentChunker) Strategy() ChunkStrategy { return DocumentBased }

// ChunkText splits text paragraph by paragraph. Start and End count sentences
// across the whole document.
func (c *DocumentChunker) ChunkText(text string) ([]Chunk, error) {
	agg := &aggregator{budget: DocumentBudget}
	pos := 0
	for _, paragraph := range segment.Paragraphs(text) {
		for _, sentence := range c.splitter.Split(paragraph) {
			agg.add(sentence, pos)
			pos++
		}
		agg.flush()
	}
	return agg.chunks, nil
}
