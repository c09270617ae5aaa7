package vocab

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/botirk38/chunkkit/types"
)

// Tiktoken adapts one of the byte-pair encodings embedded in tiktoken-go to the
// Vocabulary interface. The encodings ship inside the module, so output is
// pinned to the module version.
type Tiktoken struct {
	encoding tokenizer.Encoding
	codec    tokenizer.Codec
}

var _ types.Vocabulary = (*Tiktoken)(nil)

// NewTiktoken loads the named encoding (e.g. "cl100k_base").
func NewTiktoken(encoding string) (*Tiktoken, error) {
	enc := tokenizer.Encoding(encoding)
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokenizer %q: %w", encoding, err)
	}
	return &Tiktoken{encoding: enc, codec: codec}, nil
}

// Name returns the vocabulary reference, e.g. "tiktoken:cl100k_base".
func (t *Tiktoken) Name() string {
	return SchemeTiktoken + ":" + string(t.encoding)
}

// Tokenize encodes text into BPE tokens.
func (t *Tiktoken) Tokenize(text string) ([]types.Token, error) {
	if text == "" {
		return nil, nil
	}
	ids, pieces, err := t.codec.Encode(text)
	if err != nil {
		return nil, err
	}
	tokens := make([]types.Token, len(ids))
	for i, id := range ids {
		tokens[i] = types.Token{ID: int(id)}
		if i < len(pieces) {
			tokens[i].Text = pieces[i]
		}
	}
	return tokens, nil
}

// Detokenize decodes the token ids back to text.
func (t *Tiktoken) Detokenize(tokens []types.Token) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	ids := make([]uint, len(tokens))
	for i, tok := range tokens {
		ids[i] = uint(tok.ID)
	}
	return t.codec.Decode(ids)
}
