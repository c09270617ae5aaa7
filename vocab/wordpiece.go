package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/decoder"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"

	"github.com/botirk38/chunkkit/types"
)

const defaultUnknownToken = "[UNK]"

var (
	// ErrEmptyVocabulary indicates a vocabulary file without tokens
	ErrEmptyVocabulary = errors.New("vocabulary has no tokens")

	// ErrUnknownTokenMissing indicates the unknown token is absent from the vocabulary
	ErrUnknownTokenMissing = errors.New("vocabulary does not define the unknown token")

	// ErrTokenNotInVocabulary indicates a token id outside the vocabulary
	ErrTokenNotInVocabulary = errors.New("token is not in the vocabulary")
)

// WordPiece is a BERT WordPiece vocabulary loaded from a vocab.txt file, such
// as the one shipped with bert-base-uncased. Text goes through the BERT
// normalizer and pre-tokenizer before greedy longest-match-first subword
// segmentation; decoding glues "##" continuations back onto their word.
type WordPiece struct {
	name      string
	size      int
	lowercase bool
	unknown   string
	tk        *tokenizer.Tokenizer
}

var _ types.Vocabulary = (*WordPiece)(nil)

// WordPieceOption configures a WordPiece vocabulary.
type WordPieceOption func(*WordPiece)

// WithLowercase enables uncased mode (lowercasing and accent stripping).
func WithLowercase(lowercase bool) WordPieceOption {
	return func(w *WordPiece) { w.lowercase = lowercase }
}

// WithUnknownToken overrides the "[UNK]" token.
func WithUnknownToken(tok string) WordPieceOption {
	return func(w *WordPiece) { w.unknown = tok }
}

// WithName sets the name reported by Name.
func WithName(name string) WordPieceOption {
	return func(w *WordPiece) { w.name = name }
}

// LoadWordPieceFile reads a vocab.txt file: one token per line, id = line number.
func LoadWordPieceFile(path string, opts ...WordPieceOption) (*WordPiece, error) {
	w := &WordPiece{
		name:      SchemeWordPiece,
		lowercase: true,
		unknown:   defaultUnknownToken,
	}
	for _, opt := range opts {
		opt(w)
	}

	size, hasUnknown, err := scanVocabulary(path, w.unknown)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrEmptyVocabulary
	}
	if !hasUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenMissing, w.unknown)
	}

	model, err := wordpiece.NewWordPieceFromFile(path, w.unknown)
	if err != nil {
		return nil, fmt.Errorf("load wordpiece model: %w", err)
	}
	tk := tokenizer.NewTokenizer(model)
	tk.WithNormalizer(normalizer.NewBertNormalizer(true, w.lowercase, true, w.lowercase))
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())
	tk.WithDecoder(decoder.DefaultWordpieceDecoder())

	w.size = size
	w.tk = tk
	return w, nil
}

// scanVocabulary counts the entries of a vocab.txt file and reports whether
// unknown is among them.
func scanVocabulary(path, unknown string) (int, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var (
		size       int
		hasUnknown bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimRight(scanner.Text(), "\r") == unknown {
			hasUnknown = true
		}
		size++
	}
	if err := scanner.Err(); err != nil {
		return 0, false, fmt.Errorf("read vocabulary: %w", err)
	}
	return size, hasUnknown, nil
}

func (w *WordPiece) Name() string { return w.name }

// Size returns the number of entries in the vocabulary.
func (w *WordPiece) Size() int { return w.size }

// Tokenize splits text into WordPiece tokens.
func (w *WordPiece) Tokenize(text string) ([]types.Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	en, err := w.tk.EncodeSingle(text)
	if err != nil {
		return nil, err
	}
	tokens := make([]types.Token, len(en.Ids))
	for i, id := range en.Ids {
		tokens[i] = types.Token{ID: id}
		if i < len(en.Tokens) {
			tokens[i].Text = en.Tokens[i]
		}
	}
	return tokens, nil
}

// Detokenize decodes token ids, joining words with spaces and gluing
// continuation pieces onto the preceding token.
func (w *WordPiece) Detokenize(tokens []types.Token) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if tok.ID < 0 || tok.ID >= w.size {
			return "", fmt.Errorf("%w: id %d", ErrTokenNotInVocabulary, tok.ID)
		}
		ids[i] = tok.ID
	}
	return strings.TrimSpace(w.tk.Decode(ids, false)), nil
}
