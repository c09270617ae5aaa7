package types

import (
	"io"
	"time"
)

// Token is a single subword token produced by a Vocabulary.
type Token struct {
	// ID is the token's numeric id in the vocabulary
	ID int

	// Text is the token's surface form as the vocabulary spells it
	// (e.g. "##ing" for a WordPiece continuation, " the" for BPE).
	Text string
}

// Vocabulary defines the interface for pretrained subword vocabularies.
// Implementations must be safe for concurrent read-only use once loaded.
type Vocabulary interface {
	// Name identifies the vocabulary and its version (e.g. "tiktoken:cl100k_base").
	Name() string

	// Tokenize splits text into subword tokens.
	Tokenize(text string) ([]Token, error)

	// Detokenize reconstructs text from a token sequence. The result need not
	// equal the original substring exactly.
	Detokenize(tokens []Token) (string, error)
}

// SentenceSplitter defines the interface for sentence boundary detection.
type SentenceSplitter interface {
	// Split returns the trimmed, non-empty sentences of text in order.
	Split(text string) []string
}

// SinkType represents the type of chunk sink
type SinkType string

const (
	SinkStdout SinkType = "stdout"
	SinkDir    SinkType = "dir"
	SinkMemory SinkType = "memory"
	SinkRedis  SinkType = "redis"
)

// SinkFormat selects how stream sinks render chunks
type SinkFormat string

const (
	FormatJSONL SinkFormat = "jsonl"
	FormatText  SinkFormat = "text"
)

// SinkConfig provides configuration options for sinks
type SinkConfig struct {
	// For stream sinks
	Writer io.Writer
	Format SinkFormat

	// For directory sinks
	Dir   string
	Clean bool

	// For in-memory sinks
	Capacity int

	// For Redis
	ConnectionString string
	Username         string
	Password         string
	Database         int
	Prefix           string
	TTL              time.Duration
}
