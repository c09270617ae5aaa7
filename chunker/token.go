package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/botirk38/chunkkit/types"
)

// TokenChunker windows over the subword tokens of a pretrained vocabulary,
// MaxTokens per chunk without overlap. The vocabulary is shared and read-only.
type TokenChunker struct {
	params TokenParams
	vocab  types.Vocabulary
}

var _ Chunker = (*TokenChunker)(nil)

// NewTokenChunker creates a TokenChunker over vocab.
func NewTokenChunker(params TokenParams, vocab types.Vocabulary) (*TokenChunker, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk config: %w", err)
	}
	if vocab == nil {
		return nil, ErrVocabularyRequired
	}
	return &TokenChunker{params: params, vocab: vocab}, nil
}

// Strategy reports TokenBased.
func (c *TokenChunker) Strategy() ChunkStrategy { return TokenBased }

// Vocabulary returns the vocabulary the chunker tokenizes with.
func (c *TokenChunker) Vocabulary() types.Vocabulary { return c.vocab }

// countTokens counts the tokens of text.
func (c *TokenChunker) countTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	tokens, err := c.vocab.Tokenize(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenizerFailed, err)
	}
	return len(tokens), nil
}

// ChunkText tokenizes text and rebuilds each window of tokens with the
// vocabulary's detokenization rule. Start and End are token indices.
//
// Byte-level vocabularies may spell one character with several tokens, so a
// window only ends where the decoded text is valid UTF-8.
func (c *TokenChunker) ChunkText(text string) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens, err := c.vocab.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenizerFailed, err)
	}

	var chunks []Chunk
	for start := 0; start < len(tokens); {
		end, decoded, err := c.window(tokens, start)
		if err != nil {
			return nil, fmt.Errorf("failed to decode chunk %d: %w", len(chunks), err)
		}
		if decoded != "" {
			chunks = append(chunks, Chunk{
				Text:  decoded,
				Index: len(chunks),
				Start: start,
				End:   end,
			})
		}
		start = end
	}
	return chunks, nil
}

// window returns the end of the window opening at start and its trimmed text.
// It takes the longest window of at most MaxTokens tokens whose text is whole
// characters and re-tokenizes to at most MaxTokens tokens. When there is none,
// a single character needs more tokens than the budget allows, and the
// shortest window of whole characters is taken instead.
func (c *TokenChunker) window(tokens []types.Token, start int) (int, string, error) {
	limit := min(start+c.params.MaxTokens, len(tokens))
	for end := limit; end > start; end-- {
		decoded, err := c.vocab.Detokenize(tokens[start:end])
		if err != nil {
			return 0, "", err
		}
		if !utf8.ValidString(decoded) {
			continue
		}
		decoded = strings.TrimSpace(decoded)
		if decoded == "" {
			return end, "", nil
		}
		n, err := c.countTokens(decoded)
		if err != nil {
			return 0, "", err
		}
		if n <= c.params.MaxTokens {
			return end, decoded, nil
		}
	}

	for end := start + 1; ; end++ {
		decoded, err := c.vocab.Detokenize(tokens[start:end])
		if err != nil {
			return 0, "", err
		}
		if utf8.ValidString(decoded) || end == len(tokens) {
			return end, strings.TrimSpace(decoded), nil
		}
	}
}
