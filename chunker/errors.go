package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is wrapped by every configuration error below, so
// callers can test errors.Is(err, ErrInvalidConfiguration).
var ErrInvalidConfiguration = errors.New("invalid chunker configuration")

// Common chunker errors
var (
	// ErrInvalidChunkSize indicates chunk size is invalid (<=0)
	ErrInvalidChunkSize = fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfiguration)

	// ErrInvalidOverlap indicates overlap value is invalid (<0)
	ErrInvalidOverlap = fmt.Errorf("%w: overlap must be non-negative", ErrInvalidConfiguration)

	// ErrOverlapTooLarge indicates overlap is >= chunk size
	ErrOverlapTooLarge = fmt.Errorf("%w: overlap must be less than chunk size", ErrInvalidConfiguration)

	// ErrInvalidMaxChunkSize indicates max chunk size is invalid (<=0)
	ErrInvalidMaxChunkSize = fmt.Errorf("%w: max chunk size must be positive", ErrInvalidConfiguration)

	// ErrInvalidMinChunkSize indicates min chunk size is invalid (<=0)
	ErrInvalidMinChunkSize = fmt.Errorf("%w: min chunk size must be positive", ErrInvalidConfiguration)

	// ErrInvalidMaxSentences indicates max sentences is invalid (<=0)
	ErrInvalidMaxSentences = fmt.Errorf("%w: max sentences must be positive", ErrInvalidConfiguration)

	// ErrInvalidMaxTokens indicates max tokens is invalid (<=0)
	ErrInvalidMaxTokens = fmt.Errorf("%w: max tokens must be positive", ErrInvalidConfiguration)

	// ErrVocabularyRequired indicates a token chunker was built without a vocabulary
	ErrVocabularyRequired = fmt.Errorf("%w: token chunking requires a vocabulary", ErrInvalidConfiguration)

	// ErrUnsupportedStrategy indicates an unknown strategy name
	ErrUnsupportedStrategy = fmt.Errorf("%w: unsupported strategy", ErrInvalidConfiguration)

	// ErrTokenizerFailed indicates tokenization failed
	ErrTokenizerFailed = errors.New("tokenization failed")
)
