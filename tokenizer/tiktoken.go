package tokenizer

import (
	"context"
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// TiktokenCounter counts tokens locally with an embedded tiktoken encoding
type TiktokenCounter struct {
	codec tokenizer.Codec
}

// NewTiktokenCounter creates a new TiktokenCounter for the named encoding
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{codec: codec}, nil
}

// CountTokens counts tokens in text.
// This is a local, fast operation that doesn't require an API call
func (t *TiktokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
