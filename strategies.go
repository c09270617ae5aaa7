package chunkkit

import (
	"context"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/options"
)

func chunkTexts(text string, opts ...options.Option) ([]string, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	chunks, err := s.Chunk(context.Background(), text)
	if err != nil {
		return nil, err
	}
	return chunker.Texts(chunks), nil
}

// DocumentBasedChunking aggregates the sentences of each paragraph into
// chunks of at most chunker.DocumentBudget runes.
func DocumentBasedChunking(text string) ([]string, error) {
	return chunkTexts(text, options.WithDocumentBased())
}

// FixedSizeChunking aggregates sentences into chunks of at most chunkSize runes.
// A single sentence longer than chunkSize forms its own chunk.
func FixedSizeChunking(text string, chunkSize int) ([]string, error) {
	return chunkTexts(text, options.WithFixedSize(chunkSize))
}

// RecursiveChunking bisects text at its rune midpoint until pieces are at
// most maxChunkSize runes, keeping a piece whole when a split would produce a
// half shorter than minChunkSize.
func RecursiveChunking(text string, maxChunkSize, minChunkSize int) ([]string, error) {
	return chunkTexts(text, options.WithRecursive(maxChunkSize, minChunkSize))
}

// FixedSizeChunkingWithOverlap returns windows of chunkSize words, each
// starting chunkSize-overlap words after the previous one.
func FixedSizeChunkingWithOverlap(text string, chunkSize, overlap int) ([]string, error) {
	return chunkTexts(text, options.WithFixedSizeOverlap(chunkSize, overlap))
}

// SentenceBasedChunking groups maxSentences consecutive sentences per chunk.
func SentenceBasedChunking(text string, maxSentences int) ([]string, error) {
	return chunkTexts(text, options.WithSentenceBased(maxSentences))
}

// TokenBasedChunking windows over maxTokens tokens of the default vocabulary.
func TokenBasedChunking(text string, maxTokens int) ([]string, error) {
	return chunkTexts(text, options.WithTokenBased(maxTokens))
}
